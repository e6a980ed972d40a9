package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	id, _ := GetUserID(r.Context())
	role, _ := GetRole(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "role": role})
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	auth, err := NewAuth(testSecret, nopLogger{})
	require.NoError(t, err)
	h := auth.Middleware(http.HandlerFunc(whoAmI))

	for _, raw := range []interface{}{42, "42"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, jwt.MapClaims{
			"userId": raw,
			"role":   "admin",
			"exp":    time.Now().Add(time.Hour).Unix(),
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, float64(42), body["id"])
		assert.Equal(t, "admin", body["role"])
	}
}

func TestAuth_Rejects(t *testing.T) {
	auth, err := NewAuth(testSecret, nopLogger{})
	require.NoError(t, err)
	h := auth.Middleware(http.HandlerFunc(whoAmI))

	tests := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"bad secret":   "Bearer " + sign(t, "other", jwt.MapClaims{"userId": 1}),
		"expired":      "Bearer " + sign(t, testSecret, jwt.MapClaims{"userId": 1, "exp": time.Now().Add(-time.Minute).Unix()}),
		"no user":      "Bearer " + sign(t, testSecret, jwt.MapClaims{"role": "admin"}),
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestNewAuth_RefusesEmptySecret(t *testing.T) {
	for _, secret := range []string{"", "  "} {
		auth, err := NewAuth(secret, nopLogger{})
		assert.ErrorIs(t, err, ErrEmptySecret)
		assert.Nil(t, auth)
	}

	// токен, подписанный пустым ключом, не проходит и через нулевой Auth
	forged := sign(t, "", jwt.MapClaims{"userId": 1, "role": "admin"})
	_, _, err := (&Auth{logger: nopLogger{}}).Parse(forged)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin")(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), 1, "customer"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), 1, "admin"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"))

	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	rl.evict()
	assert.Empty(t, rl.visitors)
}

type recordedRequest struct {
	route  string
	status int
}

type fakeMetrics struct{ got []recordedRequest }

func (f *fakeMetrics) RecordHTTPRequest(_ string, route string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/bookings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/17", nil))

	require.Len(t, m.got, 1)
	assert.Equal(t, "/bookings/{id}", m.got[0].route)
	assert.Equal(t, http.StatusTeapot, m.got[0].status)
}
