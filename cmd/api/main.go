package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/creator-marketplace/backend/internal/auth"
	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/db"
	"github.com/creator-marketplace/backend/internal/events"
	apphttp "github.com/creator-marketplace/backend/internal/http"
	"github.com/creator-marketplace/backend/internal/http/handlers"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/creator-marketplace/backend/internal/services"
	"github.com/creator-marketplace/backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	creatorRepo := repositories.NewCreatorRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	linkRepo := repositories.NewLinkRepo(pool)
	messageRepo := repositories.NewMessageRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Outbound clients
	socialVerifier := auth.NewSocialVerifier(cfg.SocialAuthURL, log)
	recommendClient := services.NewRecommendClient(cfg.RecommendationURL, cfg.RecommendationAPIKey, log)
	paymentClient := services.NewPaymentClient(cfg.PaymentGatewayURL, cfg.PaymentSecretKey, log)

	// File storage is optional; campaigns still submit without it, upload
	// steps just come back as warnings.
	var uploader services.FileUploader
	if cfg.S3Bucket != "" {
		s3Uploader, err := storage.NewUploader(ctx, cfg)
		if err != nil {
			log.Warn("failed to init s3 uploader, uploads disabled", zap.Error(err))
		} else {
			uploader = s3Uploader
		}
	}

	// Services
	campaignService := services.NewCampaignService(campaignRepo, creatorRepo, recommendClient, uploader, auditRepo, cfg, log)
	inviteService := services.NewInviteService(linkRepo, campaignRepo, creatorRepo, auditRepo, publisher, cfg, log)
	draftService := services.NewDraftService(rdb, cfg.DraftTTL, log)
	chatService := services.NewChatService(messageRepo, userRepo, publisher, log)
	paymentService := services.NewPaymentService(paymentRepo, paymentClient, auditRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, socialVerifier, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, creatorRepo, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, draftService, log)
	inviteHandler := handlers.NewInviteHandler(inviteService, creatorRepo, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, campaignHandler, inviteHandler, chatHandler, paymentHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
