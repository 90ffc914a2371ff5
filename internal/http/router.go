package http

import (
	"time"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/http/handlers"
	"github.com/creator-marketplace/backend/internal/middleware"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campaignHandler *handlers.CampaignHandler,
	inviteHandler *handlers.InviteHandler,
	chatHandler *handlers.ChatHandler,
	paymentHandler *handlers.PaymentHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/social", authHandler.SocialLogin)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/niches", metaHandler.GetNiches)
	api.Get("/meta/reach-options", metaHandler.GetReachOptions)
	api.Get("/meta/platforms", metaHandler.GetPlatforms)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Put("/me", userHandler.UpdateProfile)
	protected.Post("/me/ping", userHandler.Ping)

	// Business side
	business := protected.Group("", middleware.RequireRole(models.RoleBusiness))

	// Campaign draft wizard
	business.Get("/campaigns/draft", campaignHandler.GetDraft)
	business.Post("/campaigns/draft/open", campaignHandler.OpenDraft)
	business.Put("/campaigns/draft", campaignHandler.UpdateDraft)
	business.Post("/campaigns/draft/advance", campaignHandler.AdvanceDraft)
	business.Post("/campaigns/draft/back", campaignHandler.BackDraft)
	business.Delete("/campaigns/draft", campaignHandler.DiscardDraft)

	// Campaigns
	business.Post("/campaigns", campaignHandler.CreateCampaign)
	business.Get("/campaigns", campaignHandler.ListCampaigns)
	business.Get("/campaigns/:id", campaignHandler.GetCampaign)
	business.Delete("/campaigns/:id", campaignHandler.DeleteCampaign)
	business.Post("/campaigns/:id/brief", campaignHandler.UploadBrief)
	business.Post("/campaigns/:id/cover", campaignHandler.UploadCover)

	// Creator picker
	business.Get("/campaigns/:id/suggestions", inviteHandler.Suggestions)
	business.Get("/campaigns/:id/creators", inviteHandler.Members)
	business.Post("/campaigns/:id/creators", inviteHandler.AddCreator)
	business.Delete("/campaigns/:id/creators/:creatorId", inviteHandler.RemoveCreator)
	business.Post("/campaigns/:id/invite", inviteHandler.InviteCreators)

	// Creator side
	creator := protected.Group("", middleware.RequireRole(models.RoleCreator))
	creator.Put("/me/creator-profile", userHandler.UpdateCreatorProfile)
	creator.Get("/invites", inviteHandler.MyInvites)
	creator.Post("/invites/:id/respond", inviteHandler.RespondInvite)

	// Chat (both roles)
	protected.Post("/conversations", chatHandler.StartConversation)
	protected.Get("/conversations", chatHandler.ListConversations)
	protected.Get("/conversations/:id/messages", chatHandler.Messages)
	protected.Post("/conversations/:id/messages", chatHandler.SendMessage)
	protected.Post("/conversations/:id/read", chatHandler.MarkRead)

	// Payments
	protected.Post("/payments/verify", paymentHandler.VerifyPayment)
	protected.Get("/payments", paymentHandler.History)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
