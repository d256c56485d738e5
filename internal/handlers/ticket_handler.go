package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/finbase/eventhub/internal/booking"
	"github.com/finbase/eventhub/internal/helpers"
	"github.com/finbase/eventhub/internal/middleware"
)

type CreateTicketRequest struct {
	EventID    uuid.UUID       `json:"event_id" binding:"required"`
	NumTickets int             `json:"num_tickets" binding:"required,gt=0"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

type UpdateTicketRequest struct {
	Price      *decimal.Decimal `json:"price"`
	NumTickets *int             `json:"num_tickets"`
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrEventNotFound), errors.Is(err, booking.ErrTicketNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrCapacityExceeded):
		helpers.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrUnauthorizedPriceChange), errors.Is(err, booking.ErrNotTicketOwner):
		helpers.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrInvalidQuantity):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Unexpected error processing the request.")
	}
}

func CreateTicket(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	ticket, err := bookingSvc.PurchaseTickets(c.Request.Context(), booking.PurchaseInput{
		EventID:    req.EventID,
		OwnerID:    userID,
		NumTickets: req.NumTickets,
		Price:      req.Price,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket purchased successfully.",
		"ticket":  ticket,
	})
}

func ListTickets(c *gin.Context) {
	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	tickets, err := bookingSvc.ListTickets(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func GetTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	ticket, err := bookingSvc.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func UpdateTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	ticket, err := bookingSvc.UpdateTicket(c.Request.Context(), booking.UpdateInput{
		TicketID:     ticketID,
		ActingUserID: userID,
		Price:        req.Price,
		NumTickets:   req.NumTickets,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket updated successfully.",
		"ticket":  ticket,
	})
}

func DeleteTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	if err := bookingSvc.CancelTicket(c.Request.Context(), ticketID, userID); err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket cancelled successfully.",
	})
}

func generateTicketSignature(ticketID, eventID, ownerID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", ticketID.String(), eventID.String(), ownerID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// GetTicketQR renders a signed QR image for a ticket. The signature lets a
// scanner verify the payload offline against the shared secret.
func GetTicketQR(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	bookingSvc := middleware.GetBookingService(c)
	if bookingSvc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	ticket, err := bookingSvc.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if ticket.OwnerID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a QR code for this ticket.")
		return
	}

	signature := generateTicketSignature(ticket.ID, ticket.EventID, ticket.OwnerID, os.Getenv("JWT_SECRET"))
	qrData := fmt.Sprintf("ticket:%s;event:%s;signature:%s", ticket.ID, ticket.EventID, signature)

	qrImage, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
