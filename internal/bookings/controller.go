package bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studiobook/internal/payments"
)

type Controller struct {
	service  Service
	index    *Availability
	verifier payments.Verifier
}

func NewController(service Service, index *Availability, verifier payments.Verifier) *Controller {
	return &Controller{service: service, index: index, verifier: verifier}
}

// GetTakenDates handles GET /api/bookings/taken
// Responds with a bare JSON array of ISO dates, which is exactly what the
// calendar widget consumes.
func (c *Controller) GetTakenDates(ctx *gin.Context) {
	today := NormalizeDate(time.Now().UTC())
	until := today.AddDate(0, AdvanceWindowMonths, 0)

	dates, err := c.index.TakenDates(ctx.Request.Context(), today, until)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load taken dates",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, dates)
}

// GetLockedSlots handles GET /api/bookings/slots?date=&session=
func (c *Controller) GetLockedSlots(ctx *gin.Context) {
	date, err := ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing date"})
		return
	}

	session := SessionType(ctx.Query("session"))
	if !session.IsValid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing session"})
		return
	}

	slots, err := c.index.LockedSlots(ctx.Request.Context(), date, session)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load locked slots",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, slots)
}

// HoldBooking handles POST /api/bookings/hold
func (c *Controller) HoldBooking(ctx *gin.Context) {
	var req HoldBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	booking, err := c.service.Hold(ctx.Request.Context(), HoldInput{
		Date:        date,
		SessionType: SessionType(req.BookingType),
		TimeSlot:    req.TimeSlot,
		CustomTime:  req.CustomTime,
		Amount:      req.Amount,
		Customer: Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
	})
	if err != nil {
		c.respondError(ctx, "Failed to hold booking", err)
		return
	}

	ctx.JSON(http.StatusCreated, BookingResponse{Booking: booking})
}

// ConfirmBooking handles POST /api/bookings/confirm/:id
// The payment reference is re-verified against the provider before the
// engine is asked to confirm; the browser's word alone is never trusted.
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req ConfirmBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, "Failed to confirm booking", err)
		return
	}

	if c.verifier != nil {
		payment, err := c.verifier.Verify(ctx.Request.Context(), req.Reference)
		if err != nil {
			ctx.JSON(http.StatusPaymentRequired, gin.H{
				"error":   ErrPaymentUnverified.Error(),
				"details": err.Error(),
			})
			return
		}
		// Provider amounts are in kobo.
		if payment.Amount < booking.Amount*100 {
			ctx.JSON(http.StatusPaymentRequired, gin.H{
				"error":   ErrPaymentUnverified.Error(),
				"details": "paid amount does not cover the booking",
			})
			return
		}
	}

	confirmed, err := c.service.Confirm(ctx.Request.Context(), id, req.Reference)
	if err != nil {
		c.respondError(ctx, "Failed to confirm booking", err)
		return
	}

	ctx.JSON(http.StatusOK, BookingResponse{Booking: confirmed})
}

// CancelBooking handles POST /api/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	cancelled, err := c.service.Cancel(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, "Failed to cancel booking", err)
		return
	}

	ctx.JSON(http.StatusOK, BookingResponse{Booking: cancelled})
}

// ListBookings handles GET /api/admin/bookings
// The dashboard consumes a bare array, newest first.
func (c *Controller) ListBookings(ctx *gin.Context) {
	all, err := c.service.ListBookings(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list bookings",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, all)
}

func (c *Controller) respondError(ctx *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrAlreadyTerminal):
		status = http.StatusConflict
	case errors.Is(err, ErrExpired):
		status = http.StatusGone
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrPaymentUnverified):
		status = http.StatusPaymentRequired
	}

	ctx.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}
