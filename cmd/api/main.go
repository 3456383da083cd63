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

	"github.com/campushub/tutoring-api/internal/config"
	"github.com/campushub/tutoring-api/internal/database"
	"github.com/campushub/tutoring-api/internal/handler"
	"github.com/campushub/tutoring-api/internal/middleware"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/observability"
	"github.com/campushub/tutoring-api/internal/repository"
	"github.com/campushub/tutoring-api/internal/router"
	"github.com/campushub/tutoring-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	observability.RegisterMetrics()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.TutorProfile{},
		&models.AvailabilitySlot{},
		&models.TutoringRequest{},
		&models.TutoringSession{},
		&models.Notification{},
		&models.AuditLog{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.StudySession{},
		&models.Resource{},
		&models.QAThread{},
		&models.QAPost{},
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
	} else {
		logger.Warn().Msg("redis not configured, tutor cache and cross-node notifications disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	studySessionRepo := repository.NewStudySessionRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	qaRepo := repository.NewQARepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, "tutoring", natsConn, validate, logger)
	auditService := service.NewAuditService(auditRepo, validate, logger)
	authService := service.NewAuthService(userRepo, tutorRepo, cfg, validate, logger)
	tutorService := service.NewTutorService(tutorRepo, redisClient, cfg.RequireTutorApproval, cfg.TutorCacheTTL, validate, logger)
	availabilityService := service.NewAvailabilityService(slotRepo, tutorRepo, validate, logger)
	bookingService := service.NewBookingService(bookingRepo, sessionRepo, tutorRepo, notificationService, validate, logger, cfg.RequireTutorApproval)
	adminService := service.NewAdminService(userRepo, tutorRepo, statsRepo, resourceRepo, qaRepo, auditService, notificationService, redisClient, logger)
	courseService := service.NewCourseService(courseRepo, notificationService, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, notificationService, validate, logger)
	studySessionService := service.NewStudySessionService(studySessionRepo, assignmentRepo, validate, logger)
	contentService := service.NewContentService(resourceRepo, qaRepo, notificationService, validate, logger)

	serviceCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	notificationService.Start(serviceCtx)

	deps := router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TutorHandler:        handler.NewTutorHandler(tutorService, availabilityService, logger),
		BookingHandler:      handler.NewBookingHandler(bookingService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive),
		AdminHandler:        handler.NewAdminHandler(adminService, auditService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		StudySessionHandler: handler.NewStudySessionHandler(studySessionService, logger),
		ContentHandler:      handler.NewContentHandler(contentService, logger),
		Users:               userRepo,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopServices)
}

func waitForShutdown(app *fiber.App, stopServices context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopServices()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
