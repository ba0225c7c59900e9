package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type identityKey struct{}

// identityFrom returns the authenticated identity attached by RequireAuth.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}

// RequireAuth verifies the access token carried in the accessToken cookie
// or the Authorization header, resolves the embedded identity to a live
// user record, and attaches it to the request context. Requests failing
// any step are rejected with 401 before the wrapped handler runs.
func RequireAuth(verifier TokenVerifier, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			token := bearerToken(r)
			if token == "" {
				respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				logger.Warn("access token rejected", "error", err)
				respondError(ctx, w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			user, err := users.FindByID(ctx, claims.ID)
			if err != nil {
				logger.Warn("token identity no longer resolves", "userId", claims.ID, "error", err)
				respondError(ctx, w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			identity := auth.Identity{
				ID:       user.ID,
				Email:    user.Email,
				Username: user.Username,
				FullName: user.FullName,
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityKey{}, identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return ""
}
