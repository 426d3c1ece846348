package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jerryjiang063/noteshub/plugin/covers"
	apierrors "github.com/jerryjiang063/noteshub/server/internal/errors"
	"github.com/jerryjiang063/noteshub/server/internal/observability"
	"github.com/jerryjiang063/noteshub/store"
)

// coverResponse is the wire shape of every /covers reply.
type coverResponse struct {
	OK       bool   `json:"ok"`
	Cover    string `json:"cover,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
	Cooldown bool   `json:"cooldown,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GET /api/v1/covers?title=
func (s *APIV1Service) GetCover(c echo.Context) error {
	ctx := c.Request().Context()
	reqCtx, ok := observability.FromContext(ctx)
	if !ok {
		reqCtx = observability.NewRequestContext(slog.Default(), "covers.get", 0)
	}

	// The resolver checks the feature flag before the title, so a disabled
	// instance answers 503 even for a missing title.
	title := c.QueryParam("title")
	result, err := s.Resolver.Resolve(ctx, title)
	if err != nil {
		if errors.Is(err, covers.ErrEmptyTitle) {
			return writeCoverError(c, apierrors.InvalidArgument("Missing title"))
		}
		serr := apierrors.Wrap(err, apierrors.ErrCodeInternal, "cover resolution failed")
		reqCtx.Error("cover resolution failed", serr,
			slog.String(observability.LogFieldTitle, title),
			slog.String(observability.LogFieldErrorCode, string(serr.Code)),
		)
		return writeCoverError(c, serr)
	}

	reqCtx.Info("cover resolved",
		slog.String(observability.LogFieldTitle, title),
		slog.String("status", string(result.Status)),
		slog.Bool("cached", result.Cached),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)

	if result.Status == covers.StatusFound {
		return c.JSON(http.StatusOK, &coverResponse{OK: true, Cover: result.URL, Cached: result.Cached})
	}
	return writeCoverError(c, coverError(result))
}

// coverError maps a non-found resolution onto the service error taxonomy.
func coverError(result *covers.Result) *apierrors.ServiceError {
	switch result.Status {
	case covers.StatusDisabled:
		return apierrors.FeatureDisabled("covers")
	case covers.StatusCooldown:
		return &apierrors.ServiceError{Code: apierrors.ErrCodeCooldownActive, Message: "cover lookup cooling down"}
	case covers.StatusNotFound:
		return &apierrors.ServiceError{Code: apierrors.ErrCodeNoImage, Message: result.Reason}
	case covers.StatusUpstreamError:
		code := apierrors.ErrCodeSearchFailed
		if result.Reason == covers.ReasonUploadFailed {
			code = apierrors.ErrCodeUploadFailed
		}
		return &apierrors.ServiceError{Code: code, Message: result.Reason}
	}
	return &apierrors.ServiceError{Code: apierrors.ErrCodeInternal, Message: "internal"}
}

// writeCoverError renders a service error in the covers wire contract.
func writeCoverError(c echo.Context, serr *apierrors.ServiceError) error {
	switch serr.Code {
	case apierrors.ErrCodeInvalidArgument:
		return c.JSON(http.StatusBadRequest, &coverResponse{OK: false, Error: serr.Message})
	case apierrors.ErrCodeFeatureDisabled:
		return c.JSON(http.StatusServiceUnavailable, &coverResponse{OK: false, Disabled: true})
	case apierrors.ErrCodeCooldownActive:
		return c.JSON(http.StatusTooManyRequests, &coverResponse{OK: false, Cached: true, Cooldown: true})
	case apierrors.ErrCodeNoImage:
		return c.JSON(http.StatusNotFound, &coverResponse{OK: false, Error: serr.Message})
	case apierrors.ErrCodeSearchFailed, apierrors.ErrCodeUploadFailed:
		return c.JSON(http.StatusBadGateway, &coverResponse{OK: false, Error: serr.Message})
	}
	return c.JSON(http.StatusInternalServerError, &coverResponse{OK: false, Error: "internal"})
}

// coverCacheStore adapts the cover_cache table to the resolver's cache
// contract.
type coverCacheStore struct {
	store *store.Store
}

func (s *coverCacheStore) Get(ctx context.Context, key string) (*covers.Entry, error) {
	entry, err := s.store.GetCoverCacheEntry(ctx, &store.FindCoverCacheEntry{TitleNorm: &key})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cover cache entry")
	}
	if entry == nil {
		return nil, nil
	}
	result := &covers.Entry{
		Key:         entry.TitleNorm,
		SourceURL:   entry.SourceURL,
		StoragePath: entry.StoragePath,
		Status:      covers.EntryFail,
	}
	if entry.Status == store.CoverStatusOK {
		result.Status = covers.EntryOK
	}
	if entry.UpdatedTs > 0 {
		result.UpdatedAt = time.Unix(entry.UpdatedTs, 0)
	}
	return result, nil
}

func (s *coverCacheStore) Upsert(ctx context.Context, entry *covers.Entry) error {
	status := store.CoverStatusFail
	if entry.Status == covers.EntryOK {
		status = store.CoverStatusOK
	}
	_, err := s.store.UpsertCoverCacheEntry(ctx, &store.CoverCacheEntry{
		TitleNorm:   entry.Key,
		SourceURL:   entry.SourceURL,
		StoragePath: entry.StoragePath,
		Status:      status,
		UpdatedTs:   entry.UpdatedAt.Unix(),
	})
	return errors.Wrap(err, "failed to upsert cover cache entry")
}
