package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymdash/internal/aiplan"
	"gymdash/internal/api"
	"gymdash/internal/config"
	"gymdash/internal/repository/mongo"
	"gymdash/internal/service"
	"gymdash/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Gym Dashboard Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureMemberProfileIndexes(ctx, appDB.Collection("member_profiles"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"), appDB.Collection("diet_plans"))
		mongo.EnsurePaymentIndexes(ctx, appDB.Collection("payments"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress_entries"))
		mongo.EnsureProgressPhotoIndexes(ctx, appDB.Collection("progress_photos"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoMemberProfileRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	paymentRepo := mongo.NewMongoPaymentRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	photoRepo := mongo.NewMongoProgressPhotoRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	requester := aiplan.NewRequester(cfg.AI)
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(requester, profileRepo, planRepo)
	memberService := service.NewMemberService(profileRepo, planRepo, progressRepo, photoRepo, fileStorage)
	paymentService := service.NewPaymentService(paymentRepo, profileRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, memberService, planService, paymentService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
