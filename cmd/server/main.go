// @title ChipIn API
// @version 1.0
// @description Groups, invitations, comments and shared events whose cost is split among members by spending cap.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
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

	"chipin/config"
	_ "chipin/docs"
	"chipin/internal/adapters/auth"
	"chipin/internal/adapters/email"
	"chipin/internal/adapters/markdown"
	delivery "chipin/internal/delivery/http"
	"chipin/internal/delivery/http/controllers"
	"chipin/internal/delivery/http/middleware"
	"chipin/internal/repository/postgres"
	"chipin/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	userRepo := postgres.NewUserRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	joinRequestRepo := postgres.NewJoinRequestRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	renderer := markdown.NewRenderer()
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry)
	userService := services.NewUserService(userRepo)
	groupService := services.NewGroupService(
		groupRepo, userRepo, inviteRepo, joinRequestRepo, commentRepo, eventRepo,
		emailService, renderer,
		services.InviteSettings{
			SiteURL:       cfg.SiteURL,
			FormAccessKey: cfg.FormAccessKey,
			RequireToken:  cfg.InviteTokenRequired,
		},
		logger, serviceTimeout,
	)
	commentService := services.NewCommentService(commentRepo, groupRepo, renderer, logger, serviceTimeout)
	eventService := services.NewEventService(groupRepo, eventRepo, userRepo, serviceTimeout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(registry)

	router := delivery.NewRouter(delivery.Controllers{
		Auth:    controllers.NewAuthController(logger, authService),
		User:    controllers.NewUserController(logger, userService),
		Group:   controllers.NewGroupController(logger, groupService),
		Comment: controllers.NewCommentController(logger, commentService),
		Event:   controllers.NewEventController(logger, eventService),
	}, verifier, registry, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, metrics.Middleware(middleware.LoggingMiddleware(logger, router)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "swagger", cfg.SiteURL+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
