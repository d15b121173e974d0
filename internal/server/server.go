package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/tewodrosk/tiketa/config"
	"github.com/tewodrosk/tiketa/internal/handlers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/notification"
	"github.com/tewodrosk/tiketa/internal/payment"
	"github.com/tewodrosk/tiketa/internal/repository"
	"github.com/tewodrosk/tiketa/internal/scheduler"
	"github.com/tewodrosk/tiketa/internal/service"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	userRepo := repository.NewUserRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	kycRepo := repository.NewKycRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	provider := payment.NewClient(payment.Config{
		BaseURL:     cfg.ChapaBaseURL,
		SecretKey:   cfg.ChapaSecretKey,
		CallbackURL: cfg.ChapaCallbackURL,
	})
	mailer := notification.NewMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		BaseURL:  cfg.BaseURL,
	})

	identitySvc := service.NewIdentityService(userRepo)
	ticketSvc := service.NewTicketService(ticketRepo, eventRepo, userRepo, log)
	invitationSvc := service.NewInvitationService(invitationRepo, eventRepo, ticketSvc, mailer, log)
	userSvc := service.NewUserService(userRepo, invitationSvc, log)
	eventSvc := service.NewEventService(eventRepo, ticketRepo, userRepo, identitySvc, invitationSvc, log)
	paymentSvc := service.NewPaymentService(provider, ticketSvc, ticketRepo, eventRepo, userRepo, cfg.ChapaWebhookSecret, log)
	kycSvc := service.NewKycService(kycRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, log)

	sweep := scheduler.New(invitationSvc, cfg.SweepInterval, log)
	go sweep.Start(context.Background())

	r := gin.Default()

	setupRoutes(r, cfg,
		handlers.NewAuthHandler(userSvc, cfg.JWTSecret),
		handlers.NewEventHandler(eventSvc, userSvc),
		handlers.NewTicketHandler(ticketSvc, eventSvc, notificationSvc, cfg.JWTSecret),
		handlers.NewInvitationHandler(invitationSvc, userSvc),
		handlers.NewPaymentHandler(paymentSvc, log),
		handlers.NewKycHandler(kycSvc, uploadRepo),
		handlers.NewAdminHandler(userSvc),
		handlers.NewNotificationHandler(notificationSvc),
		handlers.NewUploadHandler(uploadRepo),
	)

	log.Info("server starting", slog.String("port", cfg.Port))
	return r.Run(":" + cfg.Port)
}

func setupRoutes(
	r *gin.Engine,
	cfg *config.Config,
	auth *handlers.AuthHandler,
	events *handlers.EventHandler,
	tickets *handlers.TicketHandler,
	invitations *handlers.InvitationHandler,
	payments *handlers.PaymentHandler,
	kyc *handlers.KycHandler,
	admin *handlers.AdminHandler,
	notifications *handlers.NotificationHandler,
	uploads *handlers.UploadHandler,
) {
	public := r.Group("/v1")
	{
		public.POST("/auth/register", auth.Register)
		public.POST("/auth/login", auth.Login)

		public.GET("/events", events.List)
		public.GET("/events/:id", events.Get)

		// Signed by the provider, not by a user token.
		public.POST("/webhooks/chapa", payments.Webhook)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/events", events.Create)
		protected.PUT("/events/:id", events.Update)
		protected.GET("/events/mine", events.MyEvents)
		protected.GET("/events/:id/attendees", events.Attendees)
		protected.POST("/events/:id/rsvp", tickets.RSVP)

		protected.GET("/tickets", tickets.ListMine)
		protected.GET("/tickets/:id", tickets.Get)
		protected.GET("/tickets/:id/qr", tickets.QRCode)
		protected.POST("/tickets/:id/transfer", tickets.Transfer)
		protected.POST("/tickets/redeem", tickets.Redeem)

		protected.POST("/invitations/redeem", invitations.Redeem)

		protected.POST("/payments/charge", payments.InitiateCharge)

		protected.POST("/kyc", kyc.Submit)

		protected.GET("/notifications", notifications.ListUnread)
		protected.PATCH("/notifications/:id/read", notifications.MarkRead)

		protected.POST("/uploads", uploads.Upload)
	}

	adminRoutes := r.Group("/v1/admin")
	adminRoutes.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.PATCH("/users/:id/status", admin.SetUserStatus)
		adminRoutes.GET("/kyc", kyc.ListPending)
		adminRoutes.PATCH("/kyc/:id", kyc.Review)
	}
}
