package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User        *userResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
}

// POST /api/v1/auth/signup
func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	request := &signUpRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	request.Username = strings.TrimSpace(request.Username)
	if request.Username == "" || request.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if len(request.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find user")
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}

	nickname := request.Nickname
	if nickname == "" {
		nickname = request.Username
	}
	// The first registered user becomes the instance admin.
	role := store.RoleUser
	users, err := s.Store.ListUsers(ctx, &store.FindUser{})
	if err != nil {
		slog.Error("failed to list users", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}
	if len(users) == 0 {
		role = store.RoleAdmin
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     request.Username,
		Role:         role,
		Email:        request.Email,
		Nickname:     nickname,
		PasswordHash: passwordHash,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}
	return s.grantSession(c, user)
}

// POST /api/v1/auth/login
func (s *APIV1Service) Login(c echo.Context) error {
	ctx := c.Request().Context()
	request := &loginRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find user")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
	}
	if user.RowStatus == store.Archived {
		return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("user %q is archived", user.Username))
	}
	return s.grantSession(c, user)
}

// POST /api/v1/auth/logout
func (*APIV1Service) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// GET /api/v1/auth/me
func (s *APIV1Service) AuthMe(c echo.Context) error {
	user := auth.UserFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, s.convertUser(user))
}

// GET /api/v1/auth/github
func (s *APIV1Service) OAuthAuthorize(c echo.Context) error {
	if s.oauthProvider == nil {
		return echo.NewHTTPError(http.StatusNotFound, "oauth sign-in is not configured")
	}
	state := c.QueryParam("state")
	return c.Redirect(http.StatusFound, s.oauthProvider.AuthCodeURL(s.oauthRedirectURL(), state))
}

// GET /api/v1/auth/callback
func (s *APIV1Service) OAuthCallback(c echo.Context) error {
	if s.oauthProvider == nil {
		return echo.NewHTTPError(http.StatusNotFound, "oauth sign-in is not configured")
	}
	ctx := c.Request().Context()
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	accessToken, err := s.oauthProvider.ExchangeToken(ctx, s.oauthRedirectURL(), code)
	if err != nil {
		slog.Error("failed to exchange oauth token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "oauth exchange failed")
	}
	info, err := s.oauthProvider.UserInfo(ctx, accessToken)
	if err != nil {
		slog.Error("failed to fetch oauth userinfo", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "oauth userinfo failed")
	}

	username := info.Identifier
	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find user")
	}
	if user == nil {
		// External identities get an unusable password hash; they always
		// sign in through the provider.
		user, err = s.Store.CreateUser(ctx, &store.User{
			Username:     username,
			Role:         store.RoleUser,
			Email:        info.Email,
			Nickname:     info.DisplayName,
			PasswordHash: "",
		})
		if err != nil {
			slog.Error("failed to create user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
		}
	}
	return s.grantSession(c, user)
}

func (s *APIV1Service) oauthRedirectURL() string {
	u, _ := url.JoinPath(s.Profile.InstanceURL, "/api/v1/auth/callback")
	return u
}

// grantSession issues an access token as both cookie and response body.
func (s *APIV1Service) grantSession(c echo.Context, user *store.User) error {
	expires := time.Now().Add(auth.AccessTokenDuration)
	token, err := auth.GenerateAccessToken(user.Username, user.ID, expires, []byte(s.Secret))
	if err != nil {
		slog.Error("failed to generate access token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate access token")
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, &authResponse{
		User:        s.convertUser(user),
		AccessToken: token,
	})
}
