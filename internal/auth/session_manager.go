package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/clipstream/backend/internal/models"
)

var (
	// ErrSessionNotFound indicates the provided refresh token does not map to an active session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshTokenExpired indicates the refresh token has expired and cannot be used.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// SessionStore persists issued refresh tokens so they can survive process
// restarts and support multiple devices per user.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, refreshToken string) (Session, error)
	Delete(ctx context.Context, refreshToken string) error
}

// Session represents a refresh token issued to a user.
type Session struct {
	RefreshToken string
	UserID       string
	ExpiresAt    time.Time
}

// Manager manages the lifecycle of issued session tokens backed by a persistent store.
type Manager struct {
	tokens *TokenManager
	store  SessionStore
}

// NewManager constructs a Manager that issues signed token pairs and records
// each refresh token in the provided store.
func NewManager(tokens *TokenManager, store SessionStore) *Manager {
	if tokens == nil {
		panic("auth: token manager must not be nil")
	}
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{tokens: tokens, store: store}
}

// Issue creates a new pair of access and refresh tokens for the provided identity.
func (m *Manager) Issue(ctx context.Context, identity Identity) (models.SessionTokens, error) {
	accessToken, accessExpiresAt, err := m.tokens.IssueAccess(identity)
	if err != nil {
		return models.SessionTokens{}, err
	}

	refreshToken, refreshExpiresAt, err := m.tokens.IssueRefresh(identity.ID)
	if err != nil {
		return models.SessionTokens{}, err
	}

	if err := m.store.Save(ctx, Session{
		RefreshToken: refreshToken,
		UserID:       identity.ID,
		ExpiresAt:    refreshExpiresAt,
	}); err != nil {
		return models.SessionTokens{}, err
	}

	return models.SessionTokens{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Redeem validates a refresh token against its stored session, removes the
// session, and returns the user id it was issued to. Callers resolve the
// live user and issue a fresh pair, completing the rotation.
func (m *Manager) Redeem(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrSessionNotFound
	}

	userID, err := m.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			_ = m.store.Delete(ctx, refreshToken)
			return "", ErrRefreshTokenExpired
		}
		return "", ErrSessionNotFound
	}

	session, err := m.store.Find(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		_ = m.store.Delete(ctx, refreshToken)
		return "", ErrRefreshTokenExpired
	}

	if err := m.store.Delete(ctx, refreshToken); err != nil {
		return "", err
	}

	if session.UserID != userID {
		return "", ErrSessionNotFound
	}

	return session.UserID, nil
}

// Revoke removes the provided refresh token from the active session store.
func (m *Manager) Revoke(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	_ = m.store.Delete(ctx, refreshToken)
}

func randomTokenID() string {
	const size = 16
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
