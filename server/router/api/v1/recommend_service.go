package v1

import (
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/plugin/markdown"
	"github.com/jerryjiang063/noteshub/store"
)

const (
	// recommendPoolSize is how many recent public notes the random pick
	// draws from.
	recommendPoolSize = 50
	// recommendQuoteLimit caps the excerpt length in runes.
	recommendQuoteLimit = 140
)

type recommendResponse struct {
	NoteUID   string `json:"noteUid"`
	Quote     string `json:"quote"`
	NoteTitle string `json:"noteTitle"`
	BookTitle string `json:"bookTitle,omitempty"`
	Username  string `json:"username,omitempty"`
}

// GET /api/v1/recommend/random
func (s *APIV1Service) RecommendRandom(c echo.Context) error {
	ctx := c.Request().Context()

	visibility := store.Public
	limit := recommendPoolSize
	notes, err := s.Store.ListNotes(ctx, &store.FindNote{
		Visibility:       &visibility,
		OrderByUpdatedTs: true,
		Limit:            &limit,
	})
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}

	// Draw from the pool until a note yields a usable excerpt.
	for _, i := range rand.Perm(len(notes)) {
		note := notes[i]
		quote := markdown.Excerpt(note.ContentHTML, recommendQuoteLimit)
		if quote == "" {
			continue
		}

		response := &recommendResponse{
			NoteUID:   note.UID,
			Quote:     quote,
			NoteTitle: note.Title,
		}
		bookID := note.BookID
		if book, err := s.Store.GetBook(ctx, &store.FindBook{ID: &bookID}); err == nil && book != nil {
			response.BookTitle = book.Title
		}
		creatorID := note.CreatorID
		if creator, err := s.Store.GetUser(ctx, &store.FindUser{ID: &creatorID}); err == nil && creator != nil {
			response.Username = creator.Username
		}
		return c.JSON(http.StatusOK, response)
	}
	return echo.NewHTTPError(http.StatusNotFound, "no public notes to recommend")
}
