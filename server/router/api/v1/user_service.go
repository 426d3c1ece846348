package v1

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

const (
	// avatarMaxBytes caps an uploaded avatar before decoding.
	avatarMaxBytes = 4 << 20
	// avatarSize bounds the stored avatar's longest side.
	avatarSize = 256
)

type userResponse struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedTs int64  `json:"createdTs"`
}

type updateUserRequest struct {
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *APIV1Service) convertUser(user *store.User) *userResponse {
	if user == nil {
		return nil
	}
	response := &userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedTs: user.CreatedTs,
	}
	if user.AvatarPath != "" {
		response.AvatarURL = s.Storage.PublicURL(user.AvatarPath)
	}
	return response
}

// PATCH /api/v1/users/me
func (s *APIV1Service) UpdateCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	request := &updateUserRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	currentTs := time.Now().Unix()
	update := &store.UpdateUser{ID: user.ID, UpdatedTs: &currentTs}
	if request.Nickname != nil {
		update.Nickname = request.Nickname
	}
	if request.Email != nil {
		update.Email = request.Email
	}
	if request.Password != nil {
		if len(*request.Password) < 6 {
			return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
		}
		passwordHash, err := auth.HashPassword(*request.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user")
		}
		update.PasswordHash = &passwordHash
	}

	updated, err := s.Store.UpdateUser(ctx, update)
	if err != nil {
		slog.Error("failed to update user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user")
	}
	return c.JSON(http.StatusOK, s.convertUser(updated))
}

// POST /api/v1/users/me/avatar
func (s *APIV1Service) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if fileHeader.Size > avatarMaxBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar exceeds the size limit")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	blob, err := io.ReadAll(io.LimitReader(file, avatarMaxBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	resized, err := s.Thumbnailer.Resize(blob, avatarSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported image format")
	}

	avatarPath := fmt.Sprintf("avatars/%d/%d.jpg", user.ID, time.Now().Unix())
	if err := s.Storage.Put(ctx, avatarPath, resized, "image/jpeg"); err != nil {
		slog.Error("failed to store avatar", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store avatar")
	}

	currentTs := time.Now().Unix()
	updated, err := s.Store.UpdateUser(ctx, &store.UpdateUser{
		ID:         user.ID,
		UpdatedTs:  &currentTs,
		AvatarPath: &avatarPath,
	})
	if err != nil {
		slog.Error("failed to update user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user")
	}
	return c.JSON(http.StatusOK, s.convertUser(updated))
}

// GET /api/v1/users/:username
func (s *APIV1Service) GetUserProfile(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find user")
	}
	if user == nil || user.RowStatus == store.Archived {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	books, err := s.Store.ListBooks(ctx, &store.FindBook{CreatorID: &user.ID})
	if err != nil {
		slog.Error("failed to list books", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list books")
	}
	bookResponses := make([]*bookResponse, 0, len(books))
	for _, book := range books {
		bookResponses = append(bookResponses, convertBook(book))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":  s.convertUser(user),
		"books": bookResponses,
	})
}
