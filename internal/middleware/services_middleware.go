package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/finbase/eventhub/internal/booking"
	"github.com/finbase/eventhub/internal/reviews"
)

func ServicesMiddleware(bookingSvc *booking.Service, reviewSvc *reviews.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("booking_service", bookingSvc)
		c.Set("review_service", reviewSvc)
		c.Next()
	}
}

func GetBookingService(c *gin.Context) *booking.Service {
	svc, exists := c.Get("booking_service")
	if !exists {
		return nil
	}
	return svc.(*booking.Service)
}

func GetReviewService(c *gin.Context) *reviews.Service {
	svc, exists := c.Get("review_service")
	if !exists {
		return nil
	}
	return svc.(*reviews.Service)
}
