package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type upsertSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var knownUserSettingKeys = map[store.UserSettingKey]bool{
	store.UserSettingTheme:   true,
	store.UserSettingFont:    true,
	store.UserSettingFontURL: true,
}

// GET /api/v1/settings
func (s *APIV1Service) ListUserSettings(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	settings, err := s.Store.ListUserSettings(ctx, &store.FindUserSetting{UserID: &user.ID})
	if err != nil {
		slog.Error("failed to list user settings", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list user settings")
	}
	response := make([]*settingResponse, 0, len(settings))
	for _, setting := range settings {
		response = append(response, &settingResponse{
			Key:   string(setting.Key),
			Value: setting.Value,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// POST /api/v1/settings
func (s *APIV1Service) UpsertUserSetting(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	request := &upsertSettingRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	key := store.UserSettingKey(request.Key)
	if !knownUserSettingKeys[key] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown setting key")
	}

	setting, err := s.Store.UpsertUserSetting(ctx, &store.UserSetting{
		UserID: user.ID,
		Key:    key,
		Value:  request.Value,
	})
	if err != nil {
		slog.Error("failed to upsert user setting", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to upsert user setting")
	}
	return c.JSON(http.StatusOK, &settingResponse{
		Key:   string(setting.Key),
		Value: setting.Value,
	})
}
