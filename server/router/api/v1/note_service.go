package v1

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/jerryjiang063/noteshub/plugin/markdown"
	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type noteResponse struct {
	UID         string  `json:"uid"`
	BookUID     string  `json:"bookUid,omitempty"`
	Title       string  `json:"title"`
	ContentHTML string  `json:"contentHtml"`
	FontName    *string `json:"fontName,omitempty"`
	FontURL     *string `json:"fontUrl,omitempty"`
	Visibility  string  `json:"visibility"`
	CreatedTs   int64   `json:"createdTs"`
	UpdatedTs   int64   `json:"updatedTs"`
}

type upsertNoteRequest struct {
	BookUID     *string `json:"bookUid"`
	Title       *string `json:"title"`
	ContentHTML *string `json:"contentHtml"`
	FontName    *string `json:"fontName"`
	FontURL     *string `json:"fontUrl"`
	Visibility  *string `json:"visibility"`
}

type importNoteRequest struct {
	BookUID  string `json:"bookUid"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

func convertNote(note *store.Note) *noteResponse {
	return &noteResponse{
		UID:         note.UID,
		Title:       note.Title,
		ContentHTML: note.ContentHTML,
		FontName:    note.FontName,
		FontURL:     note.FontURL,
		Visibility:  string(note.Visibility),
		CreatedTs:   note.CreatedTs,
		UpdatedTs:   note.UpdatedTs,
	}
}

// GET /api/v1/notes?book=<uid>
func (s *APIV1Service) ListNotes(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	find := &store.FindNote{CreatorID: &user.ID, OrderByUpdatedTs: true}
	if bookUID := c.QueryParam("book"); bookUID != "" {
		book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &bookUID, CreatorID: &user.ID})
		if err != nil {
			slog.Error("failed to get book", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to get book")
		}
		if book == nil {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		find.BookID = &book.ID
	}

	notes, err := s.Store.ListNotes(ctx, find)
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}
	response := make([]*noteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, convertNote(note))
	}
	return c.JSON(http.StatusOK, response)
}

// POST /api/v1/notes
func (s *APIV1Service) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	request := &upsertNoteRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if request.BookUID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bookUid is required")
	}
	if request.Title == nil || strings.TrimSpace(*request.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: request.BookUID, CreatorID: &user.ID})
	if err != nil {
		slog.Error("failed to get book", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get book")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}

	create := &store.Note{
		UID:        shortuuid.New(),
		BookID:     book.ID,
		CreatorID:  user.ID,
		Title:      strings.TrimSpace(*request.Title),
		Visibility: store.Private,
		FontName:   request.FontName,
		FontURL:    request.FontURL,
	}
	if request.ContentHTML != nil {
		create.ContentHTML = *request.ContentHTML
	}
	if request.Visibility != nil {
		visibility, err := parseVisibility(*request.Visibility)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		create.Visibility = visibility
	}

	note, err := s.Store.CreateNote(ctx, create)
	if err != nil {
		slog.Error("failed to create note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create note")
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// POST /api/v1/notes/import
func (s *APIV1Service) ImportNote(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	request := &importNoteRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if request.BookUID == "" || strings.TrimSpace(request.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookUid and title are required")
	}

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &request.BookUID, CreatorID: &user.ID})
	if err != nil {
		slog.Error("failed to get book", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get book")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}

	contentHTML, err := markdown.ToHTML(request.Markdown)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to render markdown")
	}

	note, err := s.Store.CreateNote(ctx, &store.Note{
		UID:         shortuuid.New(),
		BookID:      book.ID,
		CreatorID:   user.ID,
		Title:       strings.TrimSpace(request.Title),
		ContentHTML: contentHTML,
		Visibility:  store.Private,
	})
	if err != nil {
		slog.Error("failed to create note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create note")
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// GET /api/v1/notes/:uid
func (s *APIV1Service) GetNote(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	note, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		slog.Error("failed to get note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get note")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}

	user := auth.UserFromContext(ctx)
	if note.Visibility != store.Public {
		if user == nil || (note.CreatorID != user.ID && user.Role != store.RoleAdmin) {
			return echo.NewHTTPError(http.StatusNotFound, "note not found")
		}
	}

	response := convertNote(note)
	if book, err := s.Store.GetBook(ctx, &store.FindBook{ID: &note.BookID}); err == nil && book != nil {
		response.BookUID = book.UID
	}
	return c.JSON(http.StatusOK, response)
}

// PUT /api/v1/notes/:uid
func (s *APIV1Service) UpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findOwnNote(c)
	if err != nil {
		return err
	}

	request := &upsertNoteRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	// Every successful update refreshes updated_ts, so the note surfaces
	// at the top of recency-ordered listings.
	currentTs := time.Now().Unix()
	update := &store.UpdateNote{ID: note.ID, UpdatedTs: &currentTs}
	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
		}
		update.Title = request.Title
	}
	if request.ContentHTML != nil {
		update.ContentHTML = request.ContentHTML
	}
	if request.FontName != nil {
		update.FontName = request.FontName
	}
	if request.FontURL != nil {
		update.FontURL = request.FontURL
	}
	if request.Visibility != nil {
		visibility, err := parseVisibility(*request.Visibility)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		update.Visibility = &visibility
	}

	updated, err := s.Store.UpdateNote(ctx, update)
	if err != nil {
		slog.Error("failed to update note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update note")
	}
	return c.JSON(http.StatusOK, convertNote(updated))
}

// DELETE /api/v1/notes/:uid
func (s *APIV1Service) DeleteNote(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findOwnNote(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteNote(ctx, &store.DeleteNote{ID: note.ID}); err != nil {
		slog.Error("failed to delete note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete note")
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *APIV1Service) findOwnNote(c echo.Context) (*store.Note, error) {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)
	uid := c.Param("uid")

	note, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		slog.Error("failed to get note", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get note")
	}
	if note == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	if note.CreatorID != user.ID && user.Role != store.RoleAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}
	return note, nil
}

func parseVisibility(value string) (store.Visibility, error) {
	switch store.Visibility(value) {
	case store.Public:
		return store.Public, nil
	case store.Private:
		return store.Private, nil
	default:
		return "", errors.Errorf("invalid visibility %q", value)
	}
}
