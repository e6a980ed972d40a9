package update_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/api/middleware"
	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/internal/service/bookings/models"
	updateBooking "github.com/m04kA/SMC-CarWashService/internal/usecase/update_booking"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *updateBooking.Request) (*models.BookingResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"scheduledDate": "2024-06-10", "scheduledTime": "14:00"}`

func doRequest(h *Handler, bookingID string, userID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, "customer"))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandle_Updated(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *updateBooking.Request) bool {
		return r.BookingID == 5 && r.UserID == 7 &&
			r.ScheduledDate != nil && r.ScheduledDate.Format(domain.DateFormat) == "2024-06-10" &&
			r.ScheduledTime != nil && *r.ScheduledTime == "14:00" && r.Notes == nil
	})).Return(&models.BookingResponse{ID: 5, ScheduledTime: "14:00", Status: "pending"}, nil)

	rec := doRequest(NewHandler(uc, nopLogger{}), "5", 7, validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, msgUpdated, body["message"])
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"slot taken", updateBooking.ErrSlotNotAvailable, http.StatusConflict, msgSlotNotAvailable},
		{"not found", updateBooking.ErrBookingNotFound, http.StatusNotFound, msgNotFound},
		{"wrong status", updateBooking.ErrCannotUpdate, http.StatusBadRequest, msgCannotUpdate},
		{
			"beyond window",
			fmt.Errorf("%w: %w", updateBooking.ErrInvalidDate, &domain.BookingWindowError{Days: 7}),
			http.StatusBadRequest, "Bookings are limited to 7 days in advance",
		},
		{
			"past date",
			fmt.Errorf("%w: %w", updateBooking.ErrInvalidDate, domain.ErrDateInPast),
			http.StatusBadRequest, "Cannot book for a past date",
		},
		{"internal", fmt.Errorf("%w: boom", updateBooking.ErrInternal), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, nopLogger{}), "5", 7, validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestHandle_ConflictMessageDiffersFromValidation(t *testing.T) {
	for _, msg := range []string{msgInvalidBookingID, msgInvalidRequestBody, msgCannotUpdate, msgNotFound} {
		assert.NotEqual(t, msgSlotNotAvailable, msg)
	}
}

func TestHandle_BadInput(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	assert.Equal(t, http.StatusBadRequest, doRequest(h, "abc", 7, validBody).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "5", 0, validBody).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, "5", 7, `{"scheduledDate":`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, "5", 7, `{"scheduledDate": "10/06/2024"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, "5", 7, `{"scheduledTime": "2pm"}`).Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
