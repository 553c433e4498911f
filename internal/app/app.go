// Package app wires configuration, storage, services and transport into
// a running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dsmolkin/feedline/internal/adapter/postgres"
	commentrepo "github.com/dsmolkin/feedline/internal/adapter/postgres/comment"
	followrepo "github.com/dsmolkin/feedline/internal/adapter/postgres/follow"
	grouprepo "github.com/dsmolkin/feedline/internal/adapter/postgres/group"
	postrepo "github.com/dsmolkin/feedline/internal/adapter/postgres/post"
	tokenrepo "github.com/dsmolkin/feedline/internal/adapter/postgres/token"
	userrepo "github.com/dsmolkin/feedline/internal/adapter/postgres/user"
	authtoken "github.com/dsmolkin/feedline/internal/auth"
	"github.com/dsmolkin/feedline/internal/config"
	authsvc "github.com/dsmolkin/feedline/internal/service/auth"
	commentsvc "github.com/dsmolkin/feedline/internal/service/comment"
	followsvc "github.com/dsmolkin/feedline/internal/service/follow"
	groupsvc "github.com/dsmolkin/feedline/internal/service/group"
	postsvc "github.com/dsmolkin/feedline/internal/service/post"
	usersvc "github.com/dsmolkin/feedline/internal/service/user"
	"github.com/dsmolkin/feedline/internal/transport/middleware"
	"github.com/dsmolkin/feedline/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the service graph and serves HTTP until the
// context is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	tx := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	posts := postrepo.New(pool)
	comments := commentrepo.New(pool)
	groups := grouprepo.New(pool)
	follows := followrepo.New(pool)

	jwt := authtoken.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, tokens, tx, jwt, cfg.Auth)
	postService := postsvc.NewService(logger, posts, groups, tx, cfg.API)
	commentService := commentsvc.NewService(logger, comments, posts, cfg.API)
	groupService := groupsvc.NewService(logger, groups, tx)
	followService := followsvc.NewService(logger, follows, users)
	userService := usersvc.NewService(logger, users, tx)

	router := rest.NewRouter(rest.Handlers{
		Auth:    rest.NewAuthHandler(authService, logger),
		Post:    rest.NewPostHandler(postService, logger),
		Comment: rest.NewCommentHandler(commentService, logger),
		Group:   rest.NewGroupHandler(groupService, logger),
		Follow:  rest.NewFollowHandler(followService, logger),
		User:    rest.NewUserHandler(userService, logger),
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.MaxPerMinute))
	}
	mws = append(mws, middleware.Auth(authService))

	handler := middleware.Chain(mws...)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
