package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"socialhub/internal/delivery/http/middleware"
	"socialhub/internal/domain"
)

const testBaseURL = "https://api.example.com"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// serve routes a single request through a mux so path values are populated.
// userID 0 sends the request unauthenticated.
func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != 0 {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// envelope decodes any response body of the API.
type envelope struct {
	Status     string            `json:"status"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Pagination domain.Pagination `json:"pagination"`
	Error      *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// fakePostService implements domain.PostService; unset methods panic.
type fakePostService struct {
	domain.PostService
	listFilter domain.PostFilter
	listPage   domain.PageRequest
	listResult domain.PageResult[*domain.Post]
	err        error
	liked      bool
}

func (f *fakePostService) List(ctx context.Context, filter domain.PostFilter, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Post], error) {
	f.listFilter, f.listPage = filter, page
	return f.listResult, f.err
}

func (f *fakePostService) Create(ctx context.Context, authorID int64, title *string, content string) (*domain.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Post{ID: 1, Title: title, Content: content, Author: domain.UserSimplified{ID: authorID}}, nil
}

func (f *fakePostService) Delete(ctx context.Context, id, userID int64) error { return f.err }

func (f *fakePostService) Like(ctx context.Context, postID, userID int64) error { return f.err }

func (f *fakePostService) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	return f.liked, f.err
}

// fakeChatService implements domain.ChatService; unset methods panic.
type fakeChatService struct {
	domain.ChatService
	err         error
	gotRoomID   int64
	gotActorID  int64
	gotChanges  []domain.ParticipantChange
	gotRemovals []int64
	created     domain.CreateGroupRoomInput
}

func (f *fakeChatService) AddParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange) error {
	f.gotRoomID, f.gotActorID, f.gotChanges = roomID, actorID, changes
	return f.err
}

func (f *fakeChatService) UpdateParticipants(ctx context.Context, roomID, actorID int64, changes []domain.ParticipantChange) error {
	f.gotRoomID, f.gotActorID, f.gotChanges = roomID, actorID, changes
	return f.err
}

func (f *fakeChatService) RemoveParticipants(ctx context.Context, roomID, actorID int64, userIDs []int64) error {
	f.gotRoomID, f.gotActorID, f.gotRemovals = roomID, actorID, userIDs
	return f.err
}

func (f *fakeChatService) CreateGroupRoom(ctx context.Context, creatorID int64, in domain.CreateGroupRoomInput) (*domain.ChatRoom, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ChatRoom{ID: 9, Title: &in.Title, IsGroupChat: true}, nil
}

func (f *fakeChatService) ListDirectMessages(ctx context.Context, userID, recipientID int64, page domain.PageRequest) (domain.PageResult[*domain.Message], error) {
	return domain.PageResult[*domain.Message]{}, f.err
}

// fakeSearchService implements domain.SearchService.
type fakeSearchService struct {
	users  domain.PageResult[*domain.UserSimplified]
	posts  domain.PageResult[*domain.Post]
	filter domain.UserSearchFilter
	called string
}

func (f *fakeSearchService) SearchUsers(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.UserSimplified], error) {
	f.called, f.filter = "users", filter
	return f.users, nil
}

func (f *fakeSearchService) SearchPosts(ctx context.Context, query string, viewerID int64, page domain.PageRequest) (domain.PageResult[*domain.Post], error) {
	f.called = "posts"
	return f.posts, nil
}

func (f *fakeSearchService) SearchAll(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) (domain.SearchAll, error) {
	f.called, f.filter = "all", filter
	return domain.SearchAll{Users: f.users, Posts: f.posts}, nil
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	err       error
	gotSignUp domain.SignUpInput
	forgot    string
}

func (f *fakeAuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	f.gotSignUp = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: 1, Email: in.Email, Username: in.Username, PasswordHash: "secret"}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.User, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}, &domain.User{ID: 1, Email: email}, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TokenPair{AccessToken: "a2", RefreshToken: "r2", TokenType: "Bearer"}, nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) error {
	f.forgot = email
	return f.err
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token != "good" {
		return domain.ErrInvalidToken
	}
	return f.err
}

// fakeNotificationService implements domain.NotificationService; unset methods panic.
type fakeNotificationService struct {
	domain.NotificationService
	olderThan time.Duration
	order     domain.SortOrder
}

func (f *fakeNotificationService) List(ctx context.Context, receiverID int64, order domain.SortOrder, page domain.PageRequest) (domain.PageResult[*domain.Notification], error) {
	f.order = order
	return domain.PageResult[*domain.Notification]{}, nil
}

func (f *fakeNotificationService) Clear(ctx context.Context, receiverID int64, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 4, nil
}
