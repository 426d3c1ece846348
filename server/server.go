// Package server assembles the echo HTTP server serving the API and
// stored blobs.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/jerryjiang063/noteshub/internal/profile"
	"github.com/jerryjiang063/noteshub/plugin/storage"
	"github.com/jerryjiang063/noteshub/server/internal/observability"
	"github.com/jerryjiang063/noteshub/server/middleware"
	apiv1 "github.com/jerryjiang063/noteshub/server/router/api/v1"
	"github.com/jerryjiang063/noteshub/store"
)

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

func NewServer(ctx context.Context, serverProfile *profile.Profile, stores *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.Debug = serverProfile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request", "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	echoServer.Use(middleware.RequestMetrics(observability.GlobalMetrics()))

	secret := serverProfile.Secret
	if secret == "" {
		secret = "noteshub"
		if serverProfile.Mode == "prod" {
			return nil, errors.New("a secret must be configured in prod mode")
		}
	}

	server := &Server{
		Secret:  secret,
		Profile: serverProfile,
		Store:   stores,
	}
	server.echoServer = echoServer

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiService := apiv1.NewAPIV1Service(secret, serverProfile, stores)
	apiService.RegisterRoutes(echoServer)
	apiService.StatsCollector.Start(ctx)
	server.apiService = apiService

	// Stored blobs (covers, avatars) are public by path.
	echoServer.GET("/o/*", server.serveBlob)

	return server, nil
}

func (s *Server) Start() error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "version", s.Profile.Version)
	if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	s.apiService.StatsCollector.Stop()
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}

func (s *Server) serveBlob(c echo.Context) error {
	blobPath := strings.TrimPrefix(c.Request().URL.Path, "/o/")
	if blobPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	data, err := s.apiService.Storage.Read(blobPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	contentType := http.DetectContentType(data)
	if c.QueryParam("thumbnail") == "true" && storage.SupportsThumbnail(contentType) {
		thumbnail, err := s.apiService.Thumbnailer.Generate(c.Request().Context(), blobPath, data)
		if err != nil {
			// Serve the original when generation fails.
			slog.Warn("failed to generate thumbnail", "path", blobPath, "error", err)
		} else {
			data, contentType = thumbnail, "image/jpeg"
		}
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}
