package app

import (
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/middleware"
	"github.com/clipstream/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config, media handlers.MediaStore) handlers.Dependencies {
	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute)

	return handlers.Dependencies{
		Users:         repositories.NewPostgresUserRepository(pool),
		Sessions:      auth.NewManager(tokens, sessionStore),
		Tokens:        tokens,
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Playlists:     repositories.NewPostgresPlaylistRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Media:         media,
		AuthLimiter:   authLimiter,
		CookieSecure:  cfg.CookieSecure,
	}
}
