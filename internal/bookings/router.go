package bookings

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"studiobook/internal/shared/middleware"
)

// RegisterValidations wires booking-specific rules into gin's validator.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookingtype", func(fl validator.FieldLevel) bool {
			return SessionType(fl.Field().String()).IsValid()
		})
	}
}

// SetupBookingRoutes configures the public booking surface and the admin
// dashboard feed. Paths match what the booking page already calls.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, jwtSecret string) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("/taken", controller.GetTakenDates)           // GET  /api/bookings/taken
		bookings.GET("/slots", controller.GetLockedSlots)          // GET  /api/bookings/slots?date=&session=
		bookings.POST("/hold", controller.HoldBooking)             // POST /api/bookings/hold
		bookings.POST("/confirm/:id", controller.ConfirmBooking)   // POST /api/bookings/confirm/:id
		bookings.POST("/:id/cancel", controller.CancelBooking)     // POST /api/bookings/:id/cancel
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("/bookings", controller.ListBookings) // GET /api/admin/bookings
	}
}

// Route definitions for reference:
//
// AVAILABILITY (derived read view)
// GET    /api/bookings/taken                 - ISO dates the calendar disables
// GET    /api/bookings/slots?date=&session=  - locked slot labels for date+session
//
// RESERVATION FLOW
// POST   /api/bookings/hold                  - atomically hold a slot (2h window)
// POST   /api/bookings/confirm/:id           - confirm after verified payment
// POST   /api/bookings/:id/cancel            - release a hold early
//
// ADMIN
// GET    /api/admin/bookings                 - full booking list for the dashboard
