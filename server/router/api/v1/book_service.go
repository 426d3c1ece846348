package v1

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/store"
)

type bookResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	CoverURL  string `json:"coverUrl,omitempty"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

type upsertBookRequest struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	CoverURL *string `json:"coverUrl"`
}

func convertBook(book *store.Book) *bookResponse {
	return &bookResponse{
		UID:       book.UID,
		Title:     book.Title,
		Author:    book.Author,
		CoverURL:  book.CoverURL,
		CreatedTs: book.CreatedTs,
		UpdatedTs: book.UpdatedTs,
	}
}

// GET /api/v1/books
func (s *APIV1Service) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	books, err := s.Store.ListBooks(ctx, &store.FindBook{CreatorID: &user.ID})
	if err != nil {
		slog.Error("failed to list books", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list books")
	}
	response := make([]*bookResponse, 0, len(books))
	for _, book := range books {
		response = append(response, convertBook(book))
	}
	return c.JSON(http.StatusOK, response)
}

// POST /api/v1/books
func (s *APIV1Service) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)

	request := &upsertBookRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if request.Title == nil || strings.TrimSpace(*request.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	create := &store.Book{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Title:     strings.TrimSpace(*request.Title),
	}
	if request.Author != nil {
		create.Author = *request.Author
	}
	if request.CoverURL != nil {
		create.CoverURL = *request.CoverURL
	}

	book, err := s.Store.CreateBook(ctx, create)
	if err != nil {
		slog.Error("failed to create book", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create book")
	}
	return c.JSON(http.StatusOK, convertBook(book))
}

// GET /api/v1/books/:uid
func (s *APIV1Service) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	book, err := s.findOwnBook(c)
	if err != nil {
		return err
	}

	notes, err := s.Store.ListNotes(ctx, &store.FindNote{BookID: &book.ID, OrderByUpdatedTs: true})
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}
	noteResponses := make([]*noteResponse, 0, len(notes))
	for _, note := range notes {
		noteResponses = append(noteResponses, convertNote(note))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"book":  convertBook(book),
		"notes": noteResponses,
	})
}

// PATCH /api/v1/books/:uid
func (s *APIV1Service) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	book, err := s.findOwnBook(c)
	if err != nil {
		return err
	}

	request := &upsertBookRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	currentTs := time.Now().Unix()
	update := &store.UpdateBook{ID: book.ID, UpdatedTs: &currentTs}
	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
		}
		update.Title = request.Title
	}
	if request.Author != nil {
		update.Author = request.Author
	}
	if request.CoverURL != nil {
		update.CoverURL = request.CoverURL
	}

	updated, err := s.Store.UpdateBook(ctx, update)
	if err != nil {
		slog.Error("failed to update book", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update book")
	}
	return c.JSON(http.StatusOK, convertBook(updated))
}

// DELETE /api/v1/books/:uid
func (s *APIV1Service) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	book, err := s.findOwnBook(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteBook(ctx, &store.DeleteBook{ID: book.ID}); err != nil {
		slog.Error("failed to delete book", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete book")
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// findOwnBook loads the book at :uid and checks the caller may modify it.
// Admins may touch any book.
func (s *APIV1Service) findOwnBook(c echo.Context) (*store.Book, error) {
	ctx := c.Request().Context()
	user := auth.UserFromContext(ctx)
	uid := c.Param("uid")

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &uid})
	if err != nil {
		slog.Error("failed to get book", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get book")
	}
	if book == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "book not found")
	}
	if book.CreatorID != user.ID && user.Role != store.RoleAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}
	return book, nil
}
