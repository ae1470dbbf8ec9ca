package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeshare/internal/cache"
	"codeshare/internal/config"
	"codeshare/internal/model"
	"codeshare/internal/repository"
	"codeshare/internal/service"
	"codeshare/internal/transport/rest"
)

// @title Codeshare API
// @version 1.0
// @description Two-party collaborative interview session service
// @host localhost:8000
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories and caches
	userRepo := repository.NewUserRepo(db)
	sessionStore := repository.NewMemorySessionStore()
	tokenCache := cache.NewTokenCache(rdb)

	// Initialize services
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo, tokenCache, cfg.JWTSecret)
	sessionSvc := service.NewSessionService(sessionStore)

	// See if there is an admin account. If not, create a standard one.
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to bootstrap admin account:", err)
	}

	var authenticator service.Authenticator = authSvc
	if cfg.Env == "development" {
		log.Println("WARNING: development auto-login enabled, requests without a token act as admin")
		authenticator = &service.DevAuthenticator{
			Real:  authSvc,
			Actor: model.Actor{Username: cfg.AdminUsername, Admin: true},
		}
	}

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		Authenticator:  authenticator,
		SessionService: sessionSvc,
		UserService:    userSvc,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}/refresh")
		log.Println("  POST /v1/sessions/{id}/text")
		log.Println("  POST /v1/candidate/register")
		log.Println("  GET  /v1/candidate/sessions/{id}/refresh")
		log.Println("  POST /v1/candidate/sessions/{id}/text")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
