package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"squotato-backend/internal/database"
	"squotato-backend/internal/handlers"
	customMiddleware "squotato-backend/internal/middleware"
	"squotato-backend/internal/notify"
	"squotato-backend/internal/quotes"
	"squotato-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "squotato")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")
	notifyHour := getEnvInt("NOTIFY_HOUR", 8)

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	quoteRepo := repository.NewQuoteRepo()
	voteRepo := repository.NewVoteRepo()
	subscriptionRepo := repository.NewSubscriptionRepo()
	attemptRepo := repository.NewAuthAttemptRepo()
	toggleOpRepo := repository.NewToggleOpRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := quoteRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create quote indexes: %v", err)
	}
	if err := voteRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create vote indexes: %v", err)
	}
	if err := subscriptionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create subscription indexes: %v", err)
	}
	if err := attemptRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create auth attempt indexes: %v", err)
	}
	if err := toggleOpRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create toggle op indexes: %v", err)
	}

	// Quote selection + vote toggling core
	quoteService := quotes.NewService(quoteRepo, voteRepo)

	// Seed the built-in quote pool on first startup
	if err := quoteService.Seed(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to seed quote pool: %v", err)
	}

	// Initialize notifier — Resend when configured, log-only otherwise
	var notifier notify.Notifier
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := getEnv("FROM_EMAIL", "squotato@example.com")
	if apiKey == "" {
		log.Println("⚠️  RESEND_API_KEY not set, notifications go to the log")
		notifier = notify.NewLogNotifier()
	} else {
		notifier = notify.NewMailer(apiKey, fromEmail)
	}

	// Daily quote delivery
	scheduler := notify.NewScheduler(quoteService, subscriptionRepo, notifier, notifyHour)
	go scheduler.Run(context.Background())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, attemptRepo, notifier, jwtSecret)
	quoteHandler := handlers.NewQuoteHandler(quoteService, userRepo, toggleOpRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	notificationHandler := handlers.NewNotificationHandler(subscriptionRepo, userRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"squotato-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/auth/signup", authHandler.SignUp)
	r.Post("/auth/signin", authHandler.SignIn)
	r.Get("/quotes/random", quoteHandler.GetRandom)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Get("/auth/session", authHandler.Session)
		r.Post("/quotes", quoteHandler.Submit)
		r.Post("/quotes/{id}/vote", quoteHandler.Vote)
		r.Get("/user/profile", userHandler.GetProfile)
		r.Post("/notifications/subscribe", notificationHandler.Subscribe)
		r.Delete("/notifications/subscribe", notificationHandler.Unsubscribe)
	})

	// Start server
	log.Printf("🚀 Squotato backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
