package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shareit/internal/events"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/bookings", "201"))
	IncHTTP("/bookings", http.StatusCreated)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/bookings", "201")))

	before = testutil.ToFloat64(grpcRequests.WithLabelValues("/shareit.booking.v1.BookingService/GetBooking", "OK"))
	IncGRPC("/shareit.booking.v1.BookingService/GetBooking", "OK")
	assert.Equal(t, before+1,
		testutil.ToFloat64(grpcRequests.WithLabelValues("/shareit.booking.v1.BookingService/GetBooking", "OK")))
}

func TestSubscribeBookingEvents(t *testing.T) {
	bus := events.NewEventBus()
	SubscribeBookingEvents(bus)

	before := testutil.ToFloat64(bookingEvents.WithLabelValues(events.EventBookingApproved))
	require.NoError(t, bus.PublishJSON(events.EventBookingApproved, events.BookingEventPayload{BookingID: 1}))
	require.NoError(t, bus.PublishJSON(events.EventBookingApproved, events.BookingEventPayload{BookingID: 2}))
	assert.Equal(t, before+2, testutil.ToFloat64(bookingEvents.WithLabelValues(events.EventBookingApproved)))
}

func TestHandler(t *testing.T) {
	Register()
	IncBookingEvent(events.EventBookingCreated)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shareit_booking_events_total")
}
