package booking_controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/utils/availability"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/staynest/booking/utils/pricing"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestWriteAdmissionErrorStatusCodes(t *testing.T) {
	bc := &BookingController{Service: &AdmissionService{}}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid range", pricing.ErrInvalidRange, http.StatusBadRequest},
		{"past check-in", ErrPastCheckIn, http.StatusBadRequest},
		{"capacity exceeded", ErrCapacityExceeded, http.StatusBadRequest},
		{"room not found", room_models.ErrRoomNotFound, http.StatusNotFound},
		{"concurrent conflict", booking_models.ErrConflict, http.StatusConflict},
		{"unknown failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			bc.writeAdmissionError(c, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestWriteAdmissionErrorUnavailableBody(t *testing.T) {
	bc := &BookingController{Service: &AdmissionService{}}
	c, w := newTestContext()

	checkIn := dateonly.New(2026, 3, 10)
	checkOut := dateonly.New(2026, 3, 12)
	bc.writeAdmissionError(c, &UnavailableError{Result: availability.Result{
		Available: false,
		Reason:    availability.ReasonBookingConflict,
		ConflictingStays: []availability.StayRange{
			{CheckIn: checkIn, CheckOut: checkOut},
		},
	}})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error            string `json:"error"`
		ConflictingStays []struct {
			CheckIn  string `json:"check_in"`
			CheckOut string `json:"check_out"`
		} `json:"conflicting_stays"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, availability.ReasonBookingConflict, body.Error)
	require.Len(t, body.ConflictingStays, 1)
	assert.Equal(t, "2026-03-10", body.ConflictingStays[0].CheckIn)
	assert.Equal(t, "2026-03-12", body.ConflictingStays[0].CheckOut)
}

func TestParseStayRange(t *testing.T) {
	t.Run("valid dates", func(t *testing.T) {
		c, _ := newTestContext()
		checkIn, checkOut, ok := parseStayRange(c, "2026-07-01", "2026-07-04")
		require.True(t, ok)
		assert.Equal(t, "2026-07-01", checkIn.String())
		assert.Equal(t, "2026-07-04", checkOut.String())
	})

	t.Run("malformed check-in", func(t *testing.T) {
		c, w := newTestContext()
		_, _, ok := parseStayRange(c, "01/07/2026", "2026-07-04")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed check-out", func(t *testing.T) {
		c, w := newTestContext()
		_, _, ok := parseStayRange(c, "2026-07-01", "not-a-date")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"zero page clamped", "page=0&limit=10", 1, 10},
		{"oversized limit clamped", "page=2&limit=500", 2, 20},
		{"garbage values", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			c.Request.URL = &url.URL{RawQuery: tt.query}

			page, limit := paginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
