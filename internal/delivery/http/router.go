package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"socialhub/internal/delivery/http/controllers"
	"socialhub/internal/delivery/http/helpers"
	"socialhub/internal/delivery/http/middleware"
	"socialhub/internal/domain"
)

// Controllers groups the handlers served by the API.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Post         *controllers.PostController
	Comment      *controllers.CommentController
	Follow       *controllers.FollowController
	Chat         *controllers.ChatController
	Notification *controllers.NotificationController
	Search       *controllers.SearchController
}

// RouterConfig holds what the router needs besides the controllers.
type RouterConfig struct {
	Tokens         domain.TokenManager
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped
// in request logging and CORS.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Tokens, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", c.Auth.Refresh)
	mux.HandleFunc("POST /auth/forgot-password", c.Auth.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password/{token}", c.Auth.ResetPassword)

	// Users
	mux.HandleFunc("GET /me/account", auth(c.User.GetAccount))
	mux.HandleFunc("PATCH /me/account", auth(c.User.UpdateAccount))
	mux.HandleFunc("GET /users/{userId}", auth(c.User.GetProfile))

	// Posts, likes and bookmarks
	mux.HandleFunc("GET /posts", auth(c.Post.ListAll))
	mux.HandleFunc("POST /posts", auth(c.Post.Create))
	mux.HandleFunc("GET /posts/{postId}", auth(c.Post.Get))
	mux.HandleFunc("PATCH /posts/{postId}", auth(c.Post.Update))
	mux.HandleFunc("DELETE /posts/{postId}", auth(c.Post.Delete))
	mux.HandleFunc("GET /posts/{postId}/likes", auth(c.Post.ListLikes))
	mux.HandleFunc("POST /posts/{postId}/likes", auth(c.Post.Like))
	mux.HandleFunc("DELETE /posts/{postId}/likes", auth(c.Post.Unlike))
	mux.HandleFunc("GET /posts/{postId}/liked", auth(c.Post.IsLiked))
	mux.HandleFunc("GET /me/posts", auth(c.Post.ListMine))
	mux.HandleFunc("GET /me/following/posts", auth(c.Post.ListFeed))
	mux.HandleFunc("GET /me/posts/saved", auth(c.Post.ListSaved))
	mux.HandleFunc("POST /me/posts/saved", auth(c.Post.Save))
	mux.HandleFunc("DELETE /me/posts/saved/{postId}", auth(c.Post.Unsave))
	mux.HandleFunc("GET /me/posts/saved/{postId}/bookmarked", auth(c.Post.IsSaved))

	// Comments
	mux.HandleFunc("GET /posts/{postId}/comments", auth(c.Comment.ListByPost))
	mux.HandleFunc("POST /comments", auth(c.Comment.Create))
	mux.HandleFunc("GET /comments/{commentId}", auth(c.Comment.Get))
	mux.HandleFunc("PATCH /comments/{commentId}", auth(c.Comment.Update))
	mux.HandleFunc("DELETE /comments/{commentId}", auth(c.Comment.Delete))
	mux.HandleFunc("GET /comments/{commentId}/replies", auth(c.Comment.ListReplies))
	mux.HandleFunc("POST /comments/{commentId}/replies", auth(c.Comment.Reply))

	// Follows and blocks
	mux.HandleFunc("POST /me/follow", auth(c.Follow.Follow))
	mux.HandleFunc("DELETE /me/follow/{userId}", auth(c.Follow.Unfollow))
	mux.HandleFunc("GET /me/following", auth(c.Follow.ListFollowing))
	mux.HandleFunc("GET /me/followers", auth(c.Follow.ListFollowers))
	mux.HandleFunc("POST /me/block", auth(c.Follow.Block))
	mux.HandleFunc("DELETE /me/block/{userId}", auth(c.Follow.Unblock))

	// Direct messages
	mux.HandleFunc("GET /me/chats", auth(c.Chat.ListMyRooms))
	mux.HandleFunc("POST /chats", auth(c.Chat.SendDirectMessage))
	mux.HandleFunc("GET /chats/{recipientId}", auth(c.Chat.ListDirectMessages))
	mux.HandleFunc("PATCH /messages/{messageId}", auth(c.Chat.UpdateMessage))
	mux.HandleFunc("DELETE /messages/{messageId}", auth(c.Chat.DeleteMessage))

	// Group chat rooms
	mux.HandleFunc("POST /chatrooms", auth(c.Chat.CreateRoom))
	mux.HandleFunc("GET /chatrooms/{roomId}", auth(c.Chat.GetRoom))
	mux.HandleFunc("GET /chatrooms/{roomId}/messages", auth(c.Chat.ListRoomMessages))
	mux.HandleFunc("POST /chatrooms/{roomId}/messages", auth(c.Chat.SendRoomMessage))
	mux.HandleFunc("POST /chatrooms/{roomId}/participants", auth(c.Chat.AddParticipants))
	mux.HandleFunc("PATCH /chatrooms/{roomId}/participants", auth(c.Chat.UpdateParticipants))
	mux.HandleFunc("DELETE /chatrooms/{roomId}/participants", auth(c.Chat.RemoveParticipants))
	mux.HandleFunc("DELETE /chatrooms/{roomId}/leave", auth(c.Chat.LeaveRoom))

	// Notifications
	mux.HandleFunc("GET /me/notifications", auth(c.Notification.List))
	mux.HandleFunc("POST /me/notifications", auth(c.Notification.Create))
	mux.HandleFunc("PATCH /me/notifications/{notificationId}/read", auth(c.Notification.MarkRead))
	mux.HandleFunc("DELETE /me/notifications", auth(c.Notification.Clear))

	// Search
	mux.HandleFunc("GET /search", auth(c.Search.Search))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, "ok")
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}
