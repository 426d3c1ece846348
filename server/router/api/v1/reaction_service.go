package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type toggleReactionRequest struct {
	Kind string `json:"kind"`
}

type reactionsResponse struct {
	Likes     int64 `json:"likes"`
	Favorites int64 `json:"favorites"`
	Liked     bool  `json:"liked"`
	Favorited bool  `json:"favorited"`
}

// POST /api/v1/notes/:uid/reactions
func (s *APIV1Service) ToggleReaction(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)
	note, err := s.findVisibleNote(c)
	if err != nil {
		return err
	}

	request := &toggleReactionRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	kind := store.ReactionKind(request.Kind)
	if kind != store.ReactionLike && kind != store.ReactionFavorite {
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be LIKE or FAVORITE")
	}

	set, err := s.Store.ToggleReaction(ctx, note.ID, user.ID, kind)
	if err != nil {
		slog.Error("failed to toggle reaction", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to toggle reaction")
	}
	return c.JSON(http.StatusOK, map[string]bool{"set": set})
}

// GET /api/v1/notes/:uid/reactions
func (s *APIV1Service) GetReactions(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findVisibleNote(c)
	if err != nil {
		return err
	}

	response := &reactionsResponse{}
	likeKind := store.ReactionLike
	favoriteKind := store.ReactionFavorite

	if response.Likes, err = s.Store.CountReactions(ctx, &store.FindReaction{NoteID: &note.ID, Kind: &likeKind}); err != nil {
		slog.Error("failed to count reactions", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count reactions")
	}
	if response.Favorites, err = s.Store.CountReactions(ctx, &store.FindReaction{NoteID: &note.ID, Kind: &favoriteKind}); err != nil {
		slog.Error("failed to count reactions", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count reactions")
	}

	if user := auth.UserFromContext(ctx); user != nil {
		reactions, err := s.Store.ListReactions(ctx, &store.FindReaction{NoteID: &note.ID, UserID: &user.ID})
		if err != nil {
			slog.Error("failed to list reactions", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list reactions")
		}
		for _, reaction := range reactions {
			switch reaction.Kind {
			case store.ReactionLike:
				response.Liked = true
			case store.ReactionFavorite:
				response.Favorited = true
			}
		}
	}
	return c.JSON(http.StatusOK, response)
}
