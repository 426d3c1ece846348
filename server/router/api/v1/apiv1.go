// Package v1 implements the JSON REST API under /api/v1.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/jerryjiang063/noteshub/internal/profile"
	"github.com/jerryjiang063/noteshub/plugin/covers"
	"github.com/jerryjiang063/noteshub/plugin/storage"
	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/server/middleware"
	"github.com/jerryjiang063/noteshub/server/stats"
	"github.com/jerryjiang063/noteshub/store"
)

type APIV1Service struct {
	Secret         string
	Profile        *profile.Profile
	Store          *store.Store
	Storage        *storage.LocalStorage
	Thumbnailer    *storage.Thumbnailer
	Resolver       *covers.Resolver
	StatsCollector *stats.Collector

	authMW        *auth.Middleware
	oauthProvider *auth.OAuthProvider
	coversLimiter *middleware.RateLimiter
}

func NewAPIV1Service(secret string, serverProfile *profile.Profile, stores *store.Store) *APIV1Service {
	localStorage := storage.NewLocalStorage(serverProfile.Data, serverProfile.InstanceURL)
	googleClient := covers.NewGoogleClient()
	resolver := covers.NewResolver(covers.ResolverConfig{
		Enabled: serverProfile.CoversEnabled,
		Policy: covers.CooldownPolicy{
			OKTTL:   time.Duration(serverProfile.CoversOKCooldownMin) * time.Minute,
			FailTTL: time.Duration(serverProfile.CoversFailCooldownMin) * time.Minute,
		},
		Cache:    &coverCacheStore{store: stores},
		Blobs:    localStorage,
		Searcher: googleClient,
		Fetcher:  googleClient,
	})

	service := &APIV1Service{
		Secret:         secret,
		Profile:        serverProfile,
		Store:          stores,
		Storage:        localStorage,
		Thumbnailer:    storage.NewThumbnailer(localStorage),
		Resolver:       resolver,
		StatsCollector: stats.NewCollector(stores),

		authMW:        auth.NewMiddleware(stores, secret),
		coversLimiter: middleware.NewRateLimiter(2, 5),
	}
	if serverProfile.OAuthClientID != "" && serverProfile.OAuthClientSecret != "" {
		// Only GitHub sign-in is offered for now.
		provider, err := auth.NewOAuthProvider(&auth.OAuthConfig{
			ClientID:         serverProfile.OAuthClientID,
			ClientSecret:     serverProfile.OAuthClientSecret,
			AuthURL:          "https://github.com/login/oauth/authorize",
			TokenURL:         "https://github.com/login/oauth/access_token",
			UserInfoURL:      "https://api.github.com/user",
			Scopes:           []string{"read:user", "user:email"},
			IdentifierField:  "login",
			DisplayNameField: "name",
			EmailField:       "email",
		})
		if err == nil {
			service.oauthProvider = provider
		}
	}
	return service
}

// RegisterRoutes mounts all /api/v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	apiGroup := echoServer.Group("/api/v1")
	apiGroup.Use(echomw.CORS())

	// Public, rate limited per client IP.
	apiGroup.GET("/covers", s.GetCover, s.coversLimiter.PerIP())

	apiGroup.POST("/auth/signup", s.SignUp)
	apiGroup.POST("/auth/login", s.Login)
	apiGroup.POST("/auth/logout", s.Logout)
	apiGroup.GET("/auth/me", s.AuthMe, s.authMW.Required)
	apiGroup.GET("/auth/github", s.OAuthAuthorize)
	apiGroup.GET("/auth/callback", s.OAuthCallback)

	apiGroup.PATCH("/users/me", s.UpdateCurrentUser, s.authMW.Required)
	apiGroup.POST("/users/me/avatar", s.UploadAvatar, s.authMW.Required)
	apiGroup.GET("/users/:username", s.GetUserProfile, s.authMW.Optional)

	apiGroup.GET("/books", s.ListBooks, s.authMW.Required)
	apiGroup.POST("/books", s.CreateBook, s.authMW.Required)
	apiGroup.GET("/books/:uid", s.GetBook, s.authMW.Required)
	apiGroup.PATCH("/books/:uid", s.UpdateBook, s.authMW.Required)
	apiGroup.DELETE("/books/:uid", s.DeleteBook, s.authMW.Required)

	apiGroup.GET("/notes", s.ListNotes, s.authMW.Required)
	apiGroup.POST("/notes", s.CreateNote, s.authMW.Required)
	apiGroup.POST("/notes/import", s.ImportNote, s.authMW.Required)
	apiGroup.GET("/recommend/random", s.RecommendRandom)
	apiGroup.GET("/notes/:uid", s.GetNote, s.authMW.Optional)
	apiGroup.PUT("/notes/:uid", s.UpdateNote, s.authMW.Required)
	apiGroup.DELETE("/notes/:uid", s.DeleteNote, s.authMW.Required)

	apiGroup.GET("/notes/:uid/comments", s.ListComments, s.authMW.Optional)
	apiGroup.POST("/notes/:uid/comments", s.CreateComment, s.authMW.Required)
	apiGroup.DELETE("/comments/:id", s.DeleteComment, s.authMW.Required)

	apiGroup.POST("/notes/:uid/reactions", s.ToggleReaction, s.authMW.Required)
	apiGroup.GET("/notes/:uid/reactions", s.GetReactions, s.authMW.Optional)

	apiGroup.GET("/settings", s.ListUserSettings, s.authMW.Required)
	apiGroup.POST("/settings", s.UpsertUserSetting, s.authMW.Required)

	apiGroup.GET("/stats", s.GetStats, s.authMW.Required)
	apiGroup.GET("/metrics", s.GetMetricsOverview, s.authMW.Required)

	echoServer.GET("/feed", s.GetRSSFeed)
	echoServer.GET("/feed/:username", s.GetUserRSSFeed)
}
