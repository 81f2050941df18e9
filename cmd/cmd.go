package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taakra-backend/internal/config"
	"taakra-backend/internal/handlers"
	"taakra-backend/internal/middleware"
	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"
	"taakra-backend/internal/services"
	"taakra-backend/migrations"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Apply migrations
	if err := migrations.Up(cfg.Database.MigrateURL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	log.Info().Msg("Migrations applied")

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Initialize services
	tokens := services.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)
	authService := services.NewAuthService(userRepo, tokens)
	categoryService := services.NewCategoryService(categoryRepo)
	competitionService := services.NewCompetitionService(competitionRepo)
	registrationService := services.NewRegistrationService(registrationRepo)
	chatService := services.NewChatService(chatRepo, userRepo)
	chatbotService := services.NewChatbotService()
	adminService := services.NewAdminService(userRepo, competitionRepo, registrationRepo)
	hub := services.NewHub(userRepo, chatRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	chatHandler := handlers.NewChatHandler(chatService)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService)
	adminHandler := handlers.NewAdminHandler(adminService)
	wsHandler := handlers.NewWebSocketHandler(hub, authService, time.Duration(cfg.JWT.AuthDeadlineSecs)*time.Second)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	auth := middleware.Auth(tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSupport)

	// Routes
	r.Get("/health", healthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth, adminOnly)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", competitionHandler.List)
			r.Get("/calendar", competitionHandler.Calendar)
			r.Get("/{id}", competitionHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth, adminOnly)
				r.Post("/", competitionHandler.Create)
				r.Put("/{id}", competitionHandler.Update)
				r.Delete("/{id}", competitionHandler.Delete)
			})
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Use(auth)
			r.Post("/", registrationHandler.Create)
			r.Get("/my", registrationHandler.My)
			r.With(staffOnly).Get("/", registrationHandler.List)
			r.With(adminOnly).Put("/{id}/approve", registrationHandler.Approve)
			r.Delete("/{id}", registrationHandler.Delete)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(auth)
			r.Get("/conversations", chatHandler.Conversations)
			r.Get("/{userId}", chatHandler.History)
		})

		r.With(auth).Post("/chatbot", chatbotHandler.Respond)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth, adminOnly)
			r.Get("/stats", adminHandler.Stats)
			r.Get("/users", adminHandler.Users)
			r.Post("/support", adminHandler.AddSupport)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success":true,"message":"Server is running"}`))
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
