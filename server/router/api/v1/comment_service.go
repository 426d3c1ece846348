package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type commentResponse struct {
	ID        int32  `json:"id"`
	Content   string `json:"content"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CreatedTs int64  `json:"createdTs"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// GET /api/v1/notes/:uid/comments
func (s *APIV1Service) ListComments(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findVisibleNote(c)
	if err != nil {
		return err
	}

	comments, err := s.Store.ListComments(ctx, &store.FindComment{NoteID: &note.ID})
	if err != nil {
		slog.Error("failed to list comments", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list comments")
	}

	response := make([]*commentResponse, 0, len(comments))
	for _, comment := range comments {
		item := &commentResponse{
			ID:        comment.ID,
			Content:   comment.Content,
			CreatedTs: comment.CreatedTs,
		}
		creatorID := comment.CreatorID
		if creator, err := s.Store.GetUser(ctx, &store.FindUser{ID: &creatorID}); err == nil && creator != nil {
			item.Username = creator.Username
			item.Nickname = creator.Nickname
		}
		response = append(response, item)
	}
	return c.JSON(http.StatusOK, response)
}

// POST /api/v1/notes/:uid/comments
func (s *APIV1Service) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)
	note, err := s.findVisibleNote(c)
	if err != nil {
		return err
	}

	request := &createCommentRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	content := strings.TrimSpace(request.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	comment, err := s.Store.CreateComment(ctx, &store.Comment{
		NoteID:    note.ID,
		CreatorID: user.ID,
		Content:   content,
	})
	if err != nil {
		slog.Error("failed to create comment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create comment")
	}
	return c.JSON(http.StatusOK, &commentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CreatedTs: comment.CreatedTs,
	})
}

// DELETE /api/v1/comments/:id
func (s *APIV1Service) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}
	commentID := int32(id)

	comment, err := s.Store.GetComment(ctx, &store.FindComment{ID: &commentID})
	if err != nil {
		slog.Error("failed to get comment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get comment")
	}
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if comment.CreatorID != user.ID && user.Role != store.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	if err := s.Store.DeleteComment(ctx, &store.DeleteComment{ID: comment.ID}); err != nil {
		slog.Error("failed to delete comment", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete comment")
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// findVisibleNote loads the note at :uid and checks the caller may read it.
func (s *APIV1Service) findVisibleNote(c echo.Context) (*store.Note, error) {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	note, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		slog.Error("failed to get note", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get note")
	}
	if note == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	if note.Visibility != store.Public {
		user := auth.UserFromContext(ctx)
		if user == nil || (note.CreatorID != user.ID && user.Role != store.RoleAdmin) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "note not found")
		}
	}
	return note, nil
}
