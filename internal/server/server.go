package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/finbase/eventhub/config"
	"github.com/finbase/eventhub/internal/booking"
	"github.com/finbase/eventhub/internal/handlers"
	"github.com/finbase/eventhub/internal/logger"
	"github.com/finbase/eventhub/internal/middleware"
	"github.com/finbase/eventhub/internal/notify"
	"github.com/finbase/eventhub/internal/reviews"
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

	log := logger.NewLogger()

	mailer := notify.NewMailer(cfg.MailFrom, log)
	notifier := notify.NewService(db, mailer, log)
	bookingSvc := booking.NewService(booking.NewGormStore(db), notifier, log)
	reviewSvc := reviews.NewService(reviews.NewGormStore(db))

	r := gin.Default()

	setupRoutes(r, db, bookingSvc, reviewSvc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("SERVER", "listening on :"+port)
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, bookingSvc *booking.Service, reviewSvc *reviews.Service) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ServicesMiddleware(bookingSvc, reviewSvc))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/users/:id", handlers.GetUser)
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)
		protected.PUT("/profile/password", handlers.ChangePassword)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.GET("", handlers.ListTickets)
			ticketProtected.POST("", handlers.CreateTicket)
			ticketProtected.GET("/:id", handlers.GetTicket)
			ticketProtected.PUT("/:id", handlers.UpdateTicket)
			ticketProtected.DELETE("/:id", handlers.DeleteTicket)
			ticketProtected.GET("/:id/qr", handlers.GetTicketQR)
		}

		reviewProtected := protected.Group("/reviews")
		{
			reviewProtected.GET("", handlers.ListReviews)
			reviewProtected.POST("", handlers.CreateReview)
			reviewProtected.GET("/:id", handlers.GetReview)
			reviewProtected.PUT("/:id", handlers.UpdateReview)
			reviewProtected.DELETE("/:id", handlers.DeleteReview)
		}

		notificationProtected := protected.Group("/notifications")
		{
			notificationProtected.GET("", handlers.ListNotifications)
			notificationProtected.POST("", handlers.CreateNotification)
			notificationProtected.GET("/unread", handlers.ListUnreadNotifications)
			notificationProtected.GET("/:id", handlers.GetNotification)
			notificationProtected.PUT("/:id", handlers.UpdateNotification)
			notificationProtected.PUT("/:id/read", handlers.MarkNotificationRead)
			notificationProtected.DELETE("/:id", handlers.DeleteNotification)
			notificationProtected.DELETE("", handlers.ClearAllNotifications)
		}
	}
}
