package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CarWashService/internal/usecase/get_available_slots"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/slots/availability?"+query, nil)
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

func TestHandle_ReturnsAllDayParts(t *testing.T) {
	date, err := domain.ParseDate("2024-06-10")
	require.NoError(t, err)

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *getAvailableSlots.Request) bool {
		return r.ServiceID == 2 && r.Date.Equal(date)
	})).Return(&getAvailableSlots.Response{
		Date:              date,
		ServiceDuration:   45,
		BookingWindowDays: 7,
		Slots: map[domain.DayPart][]domain.SlotAvailability{
			domain.DayPartMorning: {{Time: "09:00", Display: "9:00 AM", Available: true, StaffCount: 2}},
		},
	}, nil)

	rec := doRequest(NewHandler(uc, nopLogger{}), "serviceId=2&date=2024-06-10")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "2024-06-10", data["date"])
	assert.Equal(t, float64(45), data["serviceDuration"])

	slots := data["slots"].(map[string]interface{})
	for _, part := range domain.DayParts {
		assert.Contains(t, slots, string(part))
	}
	morning := slots["morning"].([]interface{})
	require.Len(t, morning, 1)
	first := morning[0].(map[string]interface{})
	assert.Equal(t, "09:00", first["time"])
	assert.Equal(t, "9:00 AM", first["display"])
	assert.Equal(t, true, first["available"])
	assert.Equal(t, float64(2), first["staffCount"])
	assert.Empty(t, slots["night"])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"service", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound, msgServiceNotFound},
		{
			"window",
			fmt.Errorf("%w: %w", getAvailableSlots.ErrInvalidDate, &domain.BookingWindowError{Days: 7}),
			http.StatusBadRequest, "Bookings are limited to 7 days in advance",
		},
		{
			"past",
			fmt.Errorf("%w: %w", getAvailableSlots.ErrInvalidDate, domain.ErrDateInPast),
			http.StatusBadRequest, "Cannot book for a past date",
		},
		{"internal", fmt.Errorf("%w: boom", getAvailableSlots.ErrInternal), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, nopLogger{}), "serviceId=2&date=2024-06-10")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["message"])
		})
	}
}

func TestHandle_BadQuery(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	tests := map[string]string{
		"date=2024-06-10":              msgMissingServiceID,
		"serviceId=-1&date=2024-06-10": msgInvalidServiceID,
		"serviceId=2":                  msgMissingDate,
		"serviceId=2&date=10.06.2024":  msgInvalidDate,
	}
	for query, msg := range tests {
		rec := doRequest(h, query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Equal(t, msg, decode(t, rec)["message"], query)
	}

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
