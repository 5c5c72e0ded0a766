package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dioarya/classpulse-api/internal/config"
	"github.com/dioarya/classpulse-api/internal/database"
	"github.com/dioarya/classpulse-api/internal/handler"
	"github.com/dioarya/classpulse-api/internal/middleware"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
	"github.com/dioarya/classpulse-api/internal/router"
	"github.com/dioarya/classpulse-api/internal/service"
	cloud "github.com/dioarya/classpulse-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Member{},
		&models.ClassMembership{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizSubmission{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.Thread{},
		&models.Reply{},
		&models.Material{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	quizRepo := repository.NewQuizRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, natsConn, cfg.NotificationChannel, validate, logger)
	rosterService := service.NewRosterService(memberRepo, logger)
	quizService := service.NewQuizService(quizRepo, redisClient, cfg.QuizCacheTTL, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, rosterService, notificationService, validate, uploader, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, uploader, logger)
	discussionService := service.NewDiscussionService(discussionRepo, notificationService, validate, logger)
	materialService := service.NewMaterialService(materialRepo, validate, uploader, logger)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	notificationService.Start(runCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		QuizHandler:         handler.NewQuizHandler(quizService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, logger),
		MaterialHandler:     handler.NewMaterialHandler(materialService, logger),
		RosterHandler:       handler.NewRosterHandler(rosterService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
