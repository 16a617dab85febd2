package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/handlers"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/logger"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/metrics"
	authmw "github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	m := metrics.New()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	identityService := services.NewIdentityService(db, cfg.PasswordResetExpiry)
	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	tokenService := services.NewTokenService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	professionalService := services.NewProfessionalService(db)
	blogService := services.NewBlogService(db)
	communityService := services.NewCommunityService(db)
	blobService := services.NewBlobService(db)

	if !emailService.IsConfigured() {
		log.Warn().Msg("SMTP is not configured, password reset e-mails will not be delivered")
	}

	hub := events.NewHub()
	go hub.Run(ctx)

	var publisher events.Publisher = hub
	if cfg.Redis.Enabled() {
		rdb, err := events.Connect(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		bridge := events.NewRedisBridge(rdb, cfg.Redis.Channel, hub)
		publisher = bridge
		go func() {
			if err := bridge.Listen(ctx); err != nil {
				log.Error().Err(err).Msg("session event subscription stopped")
			}
		}()
		log.Info().Str("channel", cfg.Redis.Channel).Msg("session events fan out through redis")
	}

	notifier := handlers.NewNotifier(publisher, m)

	authHandler := handlers.NewAuthHandler(cfg, identityService, userService, roleService, tokenService, jwtService, emailService, notifier, m)
	userHandler := handlers.NewUserHandler(userService, roleService, notifier)
	professionalHandler := handlers.NewProfessionalHandler(professionalService)
	blogHandler := handlers.NewBlogHandler(blogService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	catalogHandler := handlers.NewCatalogHandler()
	mediaHandler := handlers.NewMediaHandler(blobService, roleService, cfg.BaseURL)
	eventsHandler := handlers.NewSessionEventsHandler(hub, m)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(authmw.RequestLogger())
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/password-reset", authHandler.RequestPasswordReset)
	auth.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)
	protected.Post("/auth/password", authHandler.ChangePassword)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Get("/users/:id/role", userHandler.GetRole)

	protected.Get("/session/events", eventsHandler.Stream)

	protected.Get("/catalog/specialties", catalogHandler.Specialties)
	protected.Get("/catalog/categories", catalogHandler.Categories)

	protected.Post("/media/:folder", mediaHandler.Upload)

	protected.Get("/professionals", professionalHandler.List)
	protected.Get("/professionals/search", professionalHandler.Search)
	protected.Get("/professionals/:id", professionalHandler.Get)
	protected.Get("/blogs", blogHandler.List)
	protected.Get("/blogs/search", blogHandler.Search)
	protected.Get("/blogs/:id", blogHandler.Get)
	protected.Get("/communities", communityHandler.List)
	protected.Get("/communities/search", communityHandler.Search)
	protected.Get("/communities/:id", communityHandler.Get)

	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireAdmin(roleService))

	admin.Post("/professionals", professionalHandler.Create)
	admin.Patch("/professionals/:id", professionalHandler.Update)
	admin.Delete("/professionals/:id", professionalHandler.Delete)
	admin.Post("/blogs", blogHandler.Create)
	admin.Patch("/blogs/:id", blogHandler.Update)
	admin.Delete("/blogs/:id", blogHandler.Delete)
	admin.Post("/communities", communityHandler.Create)
	admin.Patch("/communities/:id", communityHandler.Update)
	admin.Delete("/communities/:id", communityHandler.Delete)

	api.Get("/health", func(c *drift.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Pool.Ping(pingCtx); err != nil {
			_ = c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public so listings can embed images directly.
	app.Get("/media/:folder/:name", mediaHandler.Serve)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := tokenService.CleanupExpired(ctx); err != nil {
					log.Warn().Err(err).Msg("token cleanup failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server starting")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           m.Instrument(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	_ = metricsServer.Shutdown(shutdownCtx)
}
