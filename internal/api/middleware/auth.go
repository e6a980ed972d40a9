package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-CarWashService/internal/api/handlers"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

const (
	msgMissingToken = "Authorization token is required"
	msgInvalidToken = "Invalid or expired token"
	msgForbidden    = "Access denied"
)

var errInvalidUserID = errors.New("token has no valid userId claim")

// ErrEmptySecret возвращается NewAuth, если секрет подписи не задан
var ErrEmptySecret = errors.New("middleware: jwt secret must not be empty")

// Claims клэймы access-токена, выпущенного сервисом авторизации
type Claims struct {
	RawID interface{} `json:"userId"`
	Role  string      `json:"role"`
	jwt.RegisteredClaims
}

// userID userId приходит числом или строкой
func (c *Claims) userID() (int64, error) {
	switch v := c.RawID.(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, errInvalidUserID
}

// Auth проверяет Bearer JWT (HS256) и кладёт userId и role в контекст
type Auth struct {
	secret []byte
	logger Logger
}

// NewAuth создает проверку токенов. Пустой секрет не принимается:
// с ним любой может подписать токен с ролью администратора.
func NewAuth(secret string, logger Logger) (*Auth, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &Auth{secret: []byte(secret), logger: logger}, nil
}

// Middleware отклоняет запросы без валидного токена
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		userID, role, err := a.Parse(raw)
		if err != nil {
			a.logger.Warn("Auth: %s %s - token rejected: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		ctx := WithUser(r.Context(), userID, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Parse проверяет подпись и срок действия токена
func (a *Auth) Parse(raw string) (int64, string, error) {
	if len(a.secret) == 0 {
		return 0, "", ErrEmptySecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	userID, err := claims.userID()
	if err != nil {
		return 0, "", err
	}
	return userID, claims.Role, nil
}

// RequireRole пропускает только пользователей с ролью role. Ставится после Auth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got, _ := GetRole(r.Context()); got != role {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser кладёт пользователя в контекст
func WithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// GetRole возвращает роль пользователя из контекста
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// bearerToken извлекает токен из заголовка Authorization.
// Для websocket браузер не умеет ставить заголовки, поэтому принимается ?token=.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}
