package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finbase/eventhub/internal/helpers"
	"github.com/finbase/eventhub/internal/models"
)

type CreateNotificationRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Message string    `json:"message" binding:"required"`
}

func ListNotifications(c *gin.Context) {
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

	var notifications []models.Notification
	if err := gormDB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func ListUnreadNotifications(c *gin.Context) {
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

	var notifications []models.Notification
	if err := gormDB.Where("user_id = ? AND read = ?", userID, false).Order("created_at DESC").Find(&notifications).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func CreateNotification(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req CreateNotificationRequest
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

	var event models.Event
	if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: req.EventID,
		Message: req.Message,
	}

	if err := gormDB.Create(&notification).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create notification.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Notification created successfully.",
		"notification": notification,
	})
}

func GetNotification(c *gin.Context) {
	notificationID := c.Param("id")
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

	var notification models.Notification
	if err := gormDB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notification.")
		return
	}

	c.JSON(http.StatusOK, notification)
}

type UpdateNotificationRequest struct {
	Message string `json:"message" binding:"required"`
	Read    *bool  `json:"read"`
}

func UpdateNotification(c *gin.Context) {
	notificationID := c.Param("id")
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdateNotificationRequest
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

	var notification models.Notification
	if err := gormDB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notification.")
		return
	}

	notification.Message = req.Message
	if req.Read != nil {
		notification.Read = *req.Read
	}

	if err := gormDB.Save(&notification).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification updated successfully.",
		"notification": notification,
	})
}

func MarkNotificationRead(c *gin.Context) {
	notificationID := c.Param("id")
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

	var notification models.Notification
	if err := gormDB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving notification.")
		return
	}

	notification.Read = true
	if err := gormDB.Save(&notification).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read.",
		"notification": notification,
	})
}

func DeleteNotification(c *gin.Context) {
	notificationID := c.Param("id")
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

	result := gormDB.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete notification.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification deleted successfully.",
	})
}

func ClearAllNotifications(c *gin.Context) {
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

	if err := gormDB.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to clear notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications cleared.",
	})
}
