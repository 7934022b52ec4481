// @title SocialHub API
// @version 1.0
// @description Posts, comments, follows, chat rooms, notifications and search.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialhub/config"
	_ "socialhub/docs"
	authadapter "socialhub/internal/adapters/auth"
	"socialhub/internal/adapters/email"
	httpdelivery "socialhub/internal/delivery/http"
	"socialhub/internal/delivery/http/controllers"
	"socialhub/internal/repository/postgres"
	"socialhub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl, logger)
	if err != nil {
		logger.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	resetRepo := postgres.NewResetTokenRepository(db)
	postRepo := postgres.NewPostRepository(db)
	likeRepo := postgres.NewLikeRepository(db)
	savedRepo := postgres.NewSavedPostRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	blockRepo := postgres.NewBlockRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	mailer, err := email.NewMailer(cfg.Mail, logger)
	if err != nil {
		logger.Error("configure mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	tokens := authadapter.NewJWTManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hasher := authadapter.NewBcryptHasher(cfg.BcryptCost)

	timeout := cfg.RequestTimeout
	authService := services.NewAuthService(userRepo, resetRepo, hasher, tokens, emailService, cfg.ClientURL, timeout)
	userService := services.NewUserService(userRepo, timeout)
	postService := services.NewPostService(postRepo, likeRepo, savedRepo, timeout)
	commentService := services.NewCommentService(commentRepo, postRepo, timeout)
	followService := services.NewFollowService(followRepo, blockRepo, userRepo, timeout)
	chatService := services.NewChatService(chatRepo, userRepo, services.NewParticipantAuthorizer(userRepo), timeout)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, timeout)
	searchService := services.NewSearchService(userRepo, postRepo, timeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		User:         controllers.NewUserController(logger, userService),
		Post:         controllers.NewPostController(logger, cfg.BaseURL, postService),
		Comment:      controllers.NewCommentController(logger, cfg.BaseURL, commentService),
		Follow:       controllers.NewFollowController(logger, cfg.BaseURL, followService),
		Chat:         controllers.NewChatController(logger, cfg.BaseURL, chatService),
		Notification: controllers.NewNotificationController(logger, cfg.BaseURL, notificationService),
		Search:       controllers.NewSearchController(logger, cfg.BaseURL, searchService),
	}, httpdelivery.RouterConfig{
		Tokens:         tokens,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
