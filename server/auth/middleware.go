package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/store"
)

const (
	// AccessTokenCookieName is the cookie carrying the access token for
	// browser clients.
	AccessTokenCookieName = "noteshub.access-token"
)

// Middleware authenticates requests against the store and attaches the user
// to the request context.
type Middleware struct {
	store  *store.Store
	secret []byte
}

// NewMiddleware creates an auth middleware.
func NewMiddleware(stores *store.Store, secret string) *Middleware {
	return &Middleware{store: stores, secret: []byte(secret)}
}

// Required rejects unauthenticated requests with 401.
func (m *Middleware) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.authenticate(c)
		if err != nil || user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		c.SetRequest(c.Request().WithContext(SetUserInContext(c.Request().Context(), user)))
		return next(c)
	}
}

// Optional attaches the user when credentials are present and valid, and
// lets anonymous requests through.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := m.authenticate(c); err == nil && user != nil {
			c.SetRequest(c.Request().WithContext(SetUserInContext(c.Request().Context(), user)))
		}
		return next(c)
	}
}

func (m *Middleware) authenticate(c echo.Context) (*store.User, error) {
	token := extractToken(c)
	if token == "" {
		return nil, nil
	}
	return Authenticate(c.Request().Context(), m.store, token, m.secret)
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AccessTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
