package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/config"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/database"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/handler"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/middleware"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/usecase"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/auth"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/mailer"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/validation"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file found")
	}

	cfg := config.NewConfig(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(
		cfg.Token.Secret,
		cfg.Token.Audience,
		cfg.Token.Issuer,
		cfg.Token.ExpiresIn,
	)
	smtpMailer := mailer.NewMailer(&logger)
	validator := validation.NewValidator(&logger)

	registrationUsecase := usecase.NewRegistrationUsecase(userRepo, smtpMailer, cfg.VerificationCodeTTL)
	verificationUsecase := usecase.NewVerificationUsecase(userRepo)
	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth)
	messageUsecase := usecase.NewMessageUsecase(userRepo)

	authHandler := handler.NewAuthHandler(
		&logger,
		validator,
		registrationUsecase,
		verificationUsecase,
		authUsecase,
		cfg.VerifyNotFoundAsInternal,
	)
	messageHandler := handler.NewMessageHandler(&logger, validator, messageUsecase)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		messageHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(jwtAuth))
			messageHandler.RegisterOwnerRoutes(r)
		})
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start http server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server gracefully")
	}
}
