package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
)

func TestRespondEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]int{"n": 1})
	assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	RespondConflict(rec, "taken")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"taken"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(req, &v), ErrEmptyBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1,"b":2}`))
	assert.Error(t, DecodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":3}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, 3, v.A)
}

func TestPathInt64(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc"} {
		req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": raw})
		_, err = PathInt64(req, "id")
		assert.Error(t, err, raw)
	}
}

func TestDateErrorMessage(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &domain.BookingWindowError{Days: 14})
	assert.Equal(t, "Bookings are limited to 14 days in advance", DateErrorMessage(wrapped))
	assert.Equal(t, msgDateInPast, DateErrorMessage(fmt.Errorf("x: %w", domain.ErrDateInPast)))

	var body map[string]interface{}
	rec := httptest.NewRecorder()
	RespondMessage(rec, http.StatusCreated, "done", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "done", body["message"])
	assert.NotContains(t, body, "data")
}
