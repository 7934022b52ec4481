package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"socialhub/internal/domain"
)

const testTimeout = 5 * time.Second

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[int64]*domain.User
	nextID    int64
	existsErr error
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 100}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range f.byID {
		if existing.ID != u.ID && existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) GetProfile(ctx context.Context, id, viewerID int64) (*domain.UserProfile, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.UserProfile{UserSimplified: u.Simplify(), Description: u.Description, CreatedAt: u.CreatedAt}, nil
}

func (f *fakeUserRepo) Search(ctx context.Context, query string, filter domain.UserSearchFilter, viewerID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.UserSimplified
	for _, u := range f.byID {
		s := u.Simplify()
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

// fakeChatRepo implements domain.ChatRepository for tests.
type fakeChatRepo struct {
	mu             sync.Mutex
	rooms          map[int64]*domain.ChatRoom
	members        map[int64]map[int64]domain.ParticipantRole
	messages       map[int64]*domain.Message
	nextID         int64
	upserts        [][]domain.ParticipantChange
	removals       [][]int64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:    make(map[int64]*domain.ChatRoom),
		members:  make(map[int64]map[int64]domain.ParticipantRole),
		messages: make(map[int64]*domain.Message),
		nextID:   500,
	}
}

// addGroup seeds a group room with the given member roles.
func (f *fakeChatRepo) addGroup(roomID int64, roles map[int64]domain.ParticipantRole) {
	title := "group"
	f.rooms[roomID] = &domain.ChatRoom{ID: roomID, Title: &title, IsGroupChat: true}
	f.members[roomID] = roles
}

func (f *fakeChatRepo) CreateRoom(ctx context.Context, room *domain.ChatRoom, creatorID int64, participants []domain.ParticipantChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	room.ID = f.nextID
	cp := *room
	f.rooms[room.ID] = &cp
	creatorRole := domain.RoleUser
	if room.IsGroupChat {
		creatorRole = domain.RoleCreator
	}
	f.members[room.ID] = map[int64]domain.ParticipantRole{creatorID: creatorRole}
	for _, p := range participants {
		f.members[room.ID][p.UserID] = p.Role
	}
	return nil
}

func (f *fakeChatRepo) GetRoomByID(ctx context.Context, roomID int64) (*domain.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	cp.TotalParticipants = len(f.members[roomID])
	return &cp, nil
}

func (f *fakeChatRepo) FindDirectRoom(ctx context.Context, userID, recipientID int64) (*domain.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.rooms {
		if r.IsGroupChat {
			continue
		}
		_, a := f.members[id][userID]
		_, b := f.members[id][recipientID]
		if a && b {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeChatRepo) ListRoomsByUserID(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.ChatRoom, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ChatRoom
	for id, r := range f.rooms {
		if _, ok := f.members[id][userID]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeChatRepo) GetParticipant(ctx context.Context, roomID, userID int64) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.members[roomID][userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Participant{RoomID: roomID, UserID: userID, Role: role}, nil
}

func (f *fakeChatRepo) ListParticipants(ctx context.Context, roomID int64) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Participant
	for uid, role := range f.members[roomID] {
		out = append(out, &domain.Participant{RoomID: roomID, UserID: uid, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ChangeParticipants holds the fake's lock for the whole cycle, like the room row lock.
func (f *fakeChatRepo) ChangeParticipants(ctx context.Context, roomID int64, decide domain.ParticipantDecider) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var room *domain.ChatRoom
	var members []*domain.Participant
	if r, ok := f.rooms[roomID]; ok {
		cp := *r
		room = &cp
		for uid, role := range f.members[roomID] {
			members = append(members, &domain.Participant{RoomID: roomID, UserID: uid, Role: role})
		}
		sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
		room.TotalParticipants = len(members)
	}

	batch, err := decide(ctx, room, members)
	if err != nil {
		return err
	}
	for _, id := range batch.Remove {
		if _, ok := f.members[roomID][id]; !ok {
			return domain.ErrNotFound
		}
	}
	if len(batch.Upsert) > 0 {
		f.upserts = append(f.upserts, batch.Upsert)
		for _, c := range batch.Upsert {
			f.members[roomID][c.UserID] = c.Role
		}
	}
	if len(batch.Remove) > 0 {
		f.removals = append(f.removals, batch.Remove)
		for _, id := range batch.Remove {
			delete(f.members[roomID], id)
		}
	}
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg.ID = f.nextID
	cp := *msg
	f.messages[msg.ID] = &cp
	return nil
}

func (f *fakeChatRepo) GetMessageByID(ctx context.Context, messageID int64) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeChatRepo) UpdateMessage(ctx context.Context, messageID int64, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return domain.ErrNotFound
	}
	m.Message = message
	return nil
}

func (f *fakeChatRepo) DeleteMessage(ctx context.Context, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[messageID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.messages, messageID)
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, roomID int64, page domain.PageRequest) ([]*domain.Message, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

// fakePostRepo implements domain.PostRepository for tests.
type fakePostRepo struct {
	posts    map[int64]*domain.Post
	nextID   int64
	lastList domain.PostFilter
	updated  map[int64][2]*string
}

func newFakePostRepo(posts ...*domain.Post) *fakePostRepo {
	f := &fakePostRepo{posts: make(map[int64]*domain.Post), nextID: 10, updated: make(map[int64][2]*string)}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePostRepo) Create(ctx context.Context, p *domain.Post) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id, viewerID int64) (*domain.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Update(ctx context.Context, id int64, title, content *string) error {
	if _, ok := f.posts[id]; !ok {
		return domain.ErrNotFound
	}
	f.updated[id] = [2]*string{title, content}
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) List(ctx context.Context, filter domain.PostFilter, viewerID int64, page domain.PageRequest) ([]*domain.Post, int, error) {
	f.lastList = filter
	var out []*domain.Post
	for _, p := range f.posts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

// fakeLikeRepo implements domain.LikeRepository for tests.
type fakeLikeRepo struct {
	likes map[[2]int64]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[[2]int64]bool)}
}

func (f *fakeLikeRepo) Like(ctx context.Context, postID, userID int64) error {
	k := [2]int64{postID, userID}
	if f.likes[k] {
		return domain.ErrAlreadyLiked
	}
	f.likes[k] = true
	return nil
}

func (f *fakeLikeRepo) Unlike(ctx context.Context, postID, userID int64) error {
	k := [2]int64{postID, userID}
	if !f.likes[k] {
		return domain.ErrNotFound
	}
	delete(f.likes, k)
	return nil
}

func (f *fakeLikeRepo) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	return f.likes[[2]int64{postID, userID}], nil
}

func (f *fakeLikeRepo) ListLikers(ctx context.Context, postID, viewerID int64) ([]domain.UserSimplified, error) {
	var out []domain.UserSimplified
	for k := range f.likes {
		if k[0] == postID {
			out = append(out, domain.UserSimplified{ID: k[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLikeRepo) Count(ctx context.Context, postID int64) (int, error) {
	likers, _ := f.ListLikers(ctx, postID, 0)
	return len(likers), nil
}

// fakeSavedRepo implements domain.SavedPostRepository for tests.
type fakeSavedRepo struct {
	saved map[[2]int64]bool
}

func (f *fakeSavedRepo) Save(ctx context.Context, postID, userID int64) error {
	if f.saved == nil {
		f.saved = make(map[[2]int64]bool)
	}
	k := [2]int64{postID, userID}
	if f.saved[k] {
		return domain.ErrDuplicate
	}
	f.saved[k] = true
	return nil
}

func (f *fakeSavedRepo) Remove(ctx context.Context, postID, userID int64) error {
	k := [2]int64{postID, userID}
	if !f.saved[k] {
		return domain.ErrNotFound
	}
	delete(f.saved, k)
	return nil
}

func (f *fakeSavedRepo) IsSaved(ctx context.Context, postID, userID int64) (bool, error) {
	return f.saved[[2]int64{postID, userID}], nil
}

// fakeCommentRepo implements domain.CommentRepository for tests.
type fakeCommentRepo struct {
	comments map[int64]*domain.Comment
	nextID   int64
}

func newFakeCommentRepo(comments ...*domain.Comment) *fakeCommentRepo {
	f := &fakeCommentRepo{comments: make(map[int64]*domain.Comment), nextID: 50}
	for _, c := range comments {
		f.comments[c.ID] = c
	}
	return f
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id, viewerID int64) (*domain.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, id int64, comment string) error {
	c, ok := f.comments[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Comment = comment
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) ListByPostID(ctx context.Context, postID, viewerID int64, order domain.SortOrder, page domain.PageRequest) ([]*domain.Comment, int, error) {
	var out []*domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentID == nil {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeCommentRepo) ListReplies(ctx context.Context, parentID, viewerID int64, page domain.PageRequest) ([]*domain.Comment, int, error) {
	var out []*domain.Comment
	for _, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

// fakeFollowRepo implements domain.FollowRepository and domain.BlockRepository for tests.
type fakeFollowRepo struct {
	follows map[[2]int64]bool
	blocks  map[[2]int64]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[[2]int64]bool), blocks: make(map[[2]int64]bool)}
}

func (f *fakeFollowRepo) Follow(ctx context.Context, followerID, followeeID int64) error {
	k := [2]int64{followerID, followeeID}
	if f.follows[k] {
		return domain.ErrDuplicate
	}
	f.follows[k] = true
	return nil
}

func (f *fakeFollowRepo) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	k := [2]int64{followerID, followeeID}
	if !f.follows[k] {
		return domain.ErrNotFound
	}
	delete(f.follows, k)
	return nil
}

func (f *fakeFollowRepo) ListFollowing(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	var out []*domain.UserSimplified
	for k := range f.follows {
		if k[0] == userID {
			out = append(out, &domain.UserSimplified{ID: k[1]})
		}
	}
	return out, len(out), nil
}

func (f *fakeFollowRepo) ListFollowers(ctx context.Context, userID int64, page domain.PageRequest) ([]*domain.UserSimplified, int, error) {
	var out []*domain.UserSimplified
	for k := range f.follows {
		if k[1] == userID {
			out = append(out, &domain.UserSimplified{ID: k[0]})
		}
	}
	return out, len(out), nil
}

func (f *fakeFollowRepo) Block(ctx context.Context, blockerID, blockedID int64) error {
	k := [2]int64{blockerID, blockedID}
	if f.blocks[k] {
		return domain.ErrDuplicate
	}
	f.blocks[k] = true
	delete(f.follows, [2]int64{blockerID, blockedID})
	delete(f.follows, [2]int64{blockedID, blockerID})
	return nil
}

func (f *fakeFollowRepo) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	k := [2]int64{blockerID, blockedID}
	if !f.blocks[k] {
		return domain.ErrNotFound
	}
	delete(f.blocks, k)
	return nil
}

// fakeNotificationRepo implements domain.NotificationRepository for tests.
type fakeNotificationRepo struct {
	created      []*domain.Notification
	deleteBefore time.Time
	deleted      int64
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListByReceiverID(ctx context.Context, receiverID int64, order domain.SortOrder, page domain.PageRequest) ([]*domain.Notification, int, error) {
	var out []*domain.Notification
	for _, n := range f.created {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, receiverID int64) error {
	for _, n := range f.created {
		if n.ID == id && n.ReceiverID == receiverID {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeNotificationRepo) DeleteBefore(ctx context.Context, receiverID int64, before time.Time) (int64, error) {
	f.deleteBefore = before
	return f.deleted, nil
}

// fakeResetRepo implements domain.ResetTokenRepository for tests.
type fakeResetRepo struct {
	tokens map[string]int64
}

func (f *fakeResetRepo) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	if f.tokens == nil {
		f.tokens = make(map[string]int64)
	}
	f.tokens[tokenHash] = userID
	return nil
}

func (f *fakeResetRepo) Consume(ctx context.Context, tokenHash string) (int64, error) {
	id, ok := f.tokens[tokenHash]
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	delete(f.tokens, tokenHash)
	return id, nil
}

// fakeHasher implements domain.PasswordHasher for tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash-" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens implements domain.TokenManager for tests; tokens look like "<kind>-<id>".
type fakeTokens struct {
	issueErr error
}

func (f fakeTokens) Issue(userID int64, email string, kind domain.TokenKind) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return string(kind) + "-" + email, nil
}

func (f fakeTokens) Verify(token string, kind domain.TokenKind) (int64, error) {
	if token == string(kind)+"-ok" {
		return 1, nil
	}
	return 0, domain.ErrInvalidToken
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	sent []*domain.PasswordResetEmailData
	err  error
}

func (f *fakeEmailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

var errBoom = errors.New("boom")
