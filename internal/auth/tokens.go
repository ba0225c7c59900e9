package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid indicates a token failed signature or shape validation.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a token was well formed but past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Identity is the user information embedded in access tokens and attached
// to authenticated requests.
type Identity struct {
	ID       string
	Email    string
	Username string
	FullName string
}

type accessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the bearer credentials used by the API.
// Access tokens carry the full identity; refresh tokens carry the user id only.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

// NewTokenManager constructs a TokenManager with the provided HS256 secrets and TTLs.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccess signs a short-lived access token for the provided identity.
func (m *TokenManager) IssueAccess(identity Identity) (string, time.Time, error) {
	if identity.ID == "" {
		return "", time.Time{}, errors.New("auth: identity id must be provided")
	}

	now := m.now()
	expiresAt := now.Add(m.accessTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email:    identity.Email,
		Username: identity.Username,
		FullName: identity.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// IssueRefresh signs a long-lived refresh token carrying only the user id.
func (m *TokenManager) IssueRefresh(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("auth: user id must be provided")
	}

	now := m.now()
	expiresAt := now.Add(m.refreshTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ID:        randomTokenID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyAccess checks an access token's signature and expiry and returns
// the embedded identity.
func (m *TokenManager) VerifyAccess(token string) (Identity, error) {
	claims := &accessClaims{}
	if err := m.parse(token, claims, m.accessSecret); err != nil {
		return Identity{}, err
	}
	if claims.Subject == "" {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
		FullName: claims.FullName,
	}, nil
}

// VerifyRefresh checks a refresh token's signature and expiry and returns
// the user id it was issued to.
func (m *TokenManager) VerifyRefresh(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := m.parse(token, claims, m.refreshSecret); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (m *TokenManager) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}
