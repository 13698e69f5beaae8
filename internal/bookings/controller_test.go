package bookings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studiobook/internal/bookings"
	"studiobook/internal/payments"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// fakeVerifier approves any reference with a configurable kobo amount.
type fakeVerifier struct {
	amount int64
	err    error
}

func (v *fakeVerifier) Verify(_ context.Context, reference string) (*payments.VerifiedPayment, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &payments.VerifiedPayment{
		Reference: reference,
		Amount:    v.amount,
		Currency:  "NGN",
		Status:    "success",
	}, nil
}

func newTestRouter(t *testing.T, verifier payments.Verifier) (*gin.Engine, bookings.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	index := bookings.NewAvailability(repo, nil)
	svc := bookings.NewService(repo, nil, index, nil)
	controller := bookings.NewController(svc, index, verifier)

	engine := gin.New()
	bookings.RegisterValidations()
	api := engine.Group("/api")
	bookings.SetupBookingRoutes(api, controller, testJWTSecret)
	return engine, svc
}

func holdRequestBody(date time.Time) string {
	return fmt.Sprintf(`{
		"date": %q,
		"bookingType": "part",
		"timeSlot": "1:00 PM–3:00 PM",
		"customer": {"name": "Adaeze Obi", "email": "adaeze@example.com", "phone": "+2348012345678"}
	}`, date.Format(time.RFC3339))
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHoldEndpoint_CreatesBooking(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	date := time.Now().UTC().AddDate(0, 0, 7)
	w := doJSON(engine, http.MethodPost, "/api/bookings/hold", holdRequestBody(date))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp bookings.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Booking)
	assert.Equal(t, bookings.StatusHeld, resp.Booking.Status)
	assert.Equal(t, int64(40000), resp.Booking.Amount)
}

func TestHoldEndpoint_ConflictOnOccupiedSlot(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	date := time.Now().UTC().AddDate(0, 0, 7)
	w := doJSON(engine, http.MethodPost, "/api/bookings/hold", holdRequestBody(date))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/bookings/hold", holdRequestBody(date))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestHoldEndpoint_RejectsUnknownBookingType(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	body := `{
		"date": "2026-10-14T18:30:00Z",
		"bookingType": "weekend",
		"timeSlot": "1:00 PM–3:00 PM",
		"customer": {"name": "A", "email": "a@example.com", "phone": "1"}
	}`
	w := doJSON(engine, http.MethodPost, "/api/bookings/hold", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEndpoint_VerifiedPaymentConfirms(t *testing.T) {
	// 40,000 naira in kobo.
	engine, svc := newTestRouter(t, &fakeVerifier{amount: 4000000})

	date := time.Now().UTC().AddDate(0, 0, 7)
	held, err := svc.Hold(context.Background(), bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		TimeSlot:    "1:00 PM–3:00 PM",
		Customer:    bookings.Customer{Name: "Adaeze Obi", Email: "adaeze@example.com", Phone: "+234"},
	})
	require.NoError(t, err)

	w := doJSON(engine, http.MethodPost, "/api/bookings/confirm/"+held.ID.String(), `{"reference": "PSK_ref_123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp bookings.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, bookings.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, "PSK_ref_123", resp.Booking.PaymentReference)
}

func TestConfirmEndpoint_UnderpaymentIsRejected(t *testing.T) {
	// One kobo short of the part-day price.
	engine, svc := newTestRouter(t, &fakeVerifier{amount: 3999999})

	date := time.Now().UTC().AddDate(0, 0, 7)
	held, err := svc.Hold(context.Background(), bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		TimeSlot:    "1:00 PM–3:00 PM",
		Customer:    bookings.Customer{Name: "Adaeze Obi", Email: "adaeze@example.com", Phone: "+234"},
	})
	require.NoError(t, err)

	w := doJSON(engine, http.MethodPost, "/api/bookings/confirm/"+held.ID.String(), `{"reference": "PSK_ref_123"}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	current, err := svc.GetBooking(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusHeld, current.Status)
}

func TestConfirmEndpoint_UnverifiedPaymentIsRejected(t *testing.T) {
	engine, svc := newTestRouter(t, &fakeVerifier{err: payments.ErrUnverified})

	date := time.Now().UTC().AddDate(0, 0, 7)
	held, err := svc.Hold(context.Background(), bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		TimeSlot:    "1:00 PM–3:00 PM",
		Customer:    bookings.Customer{Name: "Adaeze Obi", Email: "adaeze@example.com", Phone: "+234"},
	})
	require.NoError(t, err)

	w := doJSON(engine, http.MethodPost, "/api/bookings/confirm/"+held.ID.String(), `{"reference": "PSK_bogus"}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestConfirmEndpoint_UnknownBookingIs404(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	w := doJSON(engine, http.MethodPost, "/api/bookings/confirm/9f4cdd30-1111-4222-8333-444455556666", `{"reference": "PSK_ref"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelEndpoint_ReleasesHold(t *testing.T) {
	engine, svc := newTestRouter(t, nil)

	date := time.Now().UTC().AddDate(0, 0, 7)
	held, err := svc.Hold(context.Background(), bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		TimeSlot:    "1:00 PM–3:00 PM",
		Customer:    bookings.Customer{Name: "Adaeze Obi", Email: "adaeze@example.com", Phone: "+234"},
	})
	require.NoError(t, err)

	w := doJSON(engine, http.MethodPost, "/api/bookings/"+held.ID.String()+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp bookings.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, bookings.StatusCancelled, resp.Booking.Status)
}

func TestSlotsEndpoint_ReturnsLockedSlots(t *testing.T) {
	engine, svc := newTestRouter(t, nil)

	date := bookings.NormalizeDate(time.Now().UTC().AddDate(0, 0, 7))
	_, err := svc.Hold(context.Background(), bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		TimeSlot:    "1:00 PM–3:00 PM",
		Customer:    bookings.Customer{Name: "Adaeze Obi", Email: "adaeze@example.com", Phone: "+234"},
	})
	require.NoError(t, err)

	w := doJSON(engine, http.MethodGet, "/api/bookings/slots?date="+date.Format("2006-01-02")+"&session=part", "")
	require.Equal(t, http.StatusOK, w.Code)

	var slots []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slots))
	assert.Equal(t, []string{"1:00 PM–3:00 PM"}, slots)
}

func TestTakenEndpoint_ReturnsBareArray(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	w := doJSON(engine, http.MethodGet, "/api/bookings/taken", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dates []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dates))
	assert.Empty(t, dates)
}

func TestAdminBookings_RequiresAdminToken(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	t.Run("no token", func(t *testing.T) {
		w := doJSON(engine, http.MethodGet, "/api/admin/bookings", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "CUSTOMER"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "ADMIN"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var all []bookings.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	})
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "admin@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}
