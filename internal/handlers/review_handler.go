package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finbase/eventhub/internal/helpers"
	"github.com/finbase/eventhub/internal/middleware"
	"github.com/finbase/eventhub/internal/models"
	"github.com/finbase/eventhub/internal/reviews"
)

type CreateReviewRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Rating  int       `json:"rating" binding:"required"`
	Comment string    `json:"comment" binding:"required"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reviews.ErrEventNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, reviews.ErrEventNotYetOccurred), errors.Is(err, reviews.ErrNoTicketHeld), errors.Is(err, reviews.ErrInvalidRating):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Unexpected error processing the request.")
	}
}

func CreateReview(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	reviewSvc := middleware.GetReviewService(c)
	if reviewSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Review service not found.")
		return
	}

	review, err := reviewSvc.CreateReview(c.Request.Context(), reviews.CreateInput{
		EventID: req.EventID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully.",
		"review":  review,
	})
}

func ListReviews(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Review{})
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var reviewList []models.Review
	if err := query.Preload("User").Order("created_at DESC").Find(&reviewList).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviewList})
}

func GetReview(c *gin.Context) {
	reviewID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Preload("User").Where("id = ?", reviewID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Review not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving review.")
		return
	}

	c.JSON(http.StatusOK, review)
}

func UpdateReview(c *gin.Context) {
	reviewID := c.Param("id")
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var review models.Review
	if err := gormDB.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Review not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding review.")
		return
	}

	review.Rating = req.Rating
	review.Comment = req.Comment

	if err := gormDB.Save(&review).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update review.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully.",
		"review":  review,
	})
}

func DeleteReview(c *gin.Context) {
	reviewID := c.Param("id")
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ? AND user_id = ?", reviewID, userID).Delete(&models.Review{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete review.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Review not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully.",
	})
}
