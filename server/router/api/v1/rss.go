package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/plugin/markdown"
	"github.com/jerryjiang063/noteshub/store"
)

const maxRSSItemCount = 100

// GET /feed
func (s *APIV1Service) GetRSSFeed(c echo.Context) error {
	ctx := c.Request().Context()

	visibility := store.Public
	limit := maxRSSItemCount
	notes, err := s.Store.ListNotes(ctx, &store.FindNote{
		Visibility:       &visibility,
		OrderByUpdatedTs: true,
		Limit:            &limit,
	})
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}
	return s.writeRSS(c, "Reading notes", notes)
}

// GET /feed/:username
func (s *APIV1Service) GetUserRSSFeed(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		slog.Error("failed to find user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find user")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	visibility := store.Public
	limit := maxRSSItemCount
	notes, err := s.Store.ListNotes(ctx, &store.FindNote{
		CreatorID:        &user.ID,
		Visibility:       &visibility,
		OrderByUpdatedTs: true,
		Limit:            &limit,
	})
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}
	return s.writeRSS(c, fmt.Sprintf("Reading notes by %s", username), notes)
}

func (s *APIV1Service) writeRSS(c echo.Context, title string, notes []*store.Note) error {
	feed := &feeds.Feed{
		Title:   title,
		Link:    &feeds.Link{Href: s.Profile.InstanceURL},
		Created: time.Now(),
	}

	for _, note := range notes {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       note.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/notes/%s", s.Profile.InstanceURL, note.UID)},
			Description: markdown.Excerpt(note.ContentHTML, recommendQuoteLimit),
			Content:     note.ContentHTML,
			Created:     time.Unix(note.CreatedTs, 0),
			Updated:     time.Unix(note.UpdatedTs, 0),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		slog.Error("failed to render rss", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render rss")
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}
