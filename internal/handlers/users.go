package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// UserHandler implements account lifecycle, session and channel endpoints.
type UserHandler struct {
	Users    UserStore
	Sessions SessionManager
	Media    MediaStore
	Limiter  RateLimiter

	// CookieSecure controls the Secure attribute on auth cookies. Off in
	// local development where the API is served over plain HTTP.
	CookieSecure bool
}

// Register implements POST /api/v1/users/register. The body is multipart
// form data carrying the account fields plus a required avatar image and
// an optional cover image.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many registration attempts, slow down")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	email := strings.TrimSpace(r.FormValue("email"))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	password := r.FormValue("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		respondError(ctx, w, http.StatusBadRequest, "All fields are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	avatarURL, err := uploadFormFile(ctx, h.Media, r, "avatar")
	if err != nil {
		if errors.Is(err, errMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, "Avatar file is required")
			return
		}
		logger.Error("upload avatar", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store avatar")
		return
	}

	coverURL, err := uploadFormFile(ctx, h.Media, r, "coverImage")
	if err != nil && !errors.Is(err, errMissingFile) {
		logger.Error("upload cover image", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store cover image")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not register user")
		return
	}

	user := models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   string(hash),
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "Username or email already exists")
			return
		}
		logger.Error("create user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not register user")
		return
	}

	created, err := h.Users.FindByID(ctx, user.ID)
	if err != nil {
		created = user
	}

	respondJSON(ctx, w, http.StatusCreated, created, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login implements POST /api/v1/users/login. Either username or email
// identifies the account. On success the token pair is set as httpOnly
// cookies and echoed in the body for non-browser clients.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many login attempts, slow down")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Usernames are stored lowercased on registration.
	login := strings.ToLower(strings.TrimSpace(req.Username))
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}
	if login == "" || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "Username or email and password are required")
		return
	}

	user, err := h.Users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User does not exist")
			return
		}
		logger.Error("look up user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid user credentials")
		return
	}

	tokens, err := h.issueSession(w, r, user)
	if err != nil {
		logger.Error("issue session", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not log in")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "User logged in successfully")
}

// Refresh implements POST /api/v1/users/refresh-token. The presented
// refresh token is consumed and a fresh pair is issued in its place.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	token := refreshTokenFrom(r)
	if token == "" {
		respondError(ctx, w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	userID, err := h.Sessions.Redeem(ctx, token)
	if err != nil {
		logger.Warn("refresh token rejected", "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokens, err := h.issueSession(w, r, user)
	if err != nil {
		logger.Error("issue session", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not refresh session")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "Access token refreshed")
}

// Logout implements POST /api/v1/users/logout. The stored session for the
// presented refresh token is discarded and both cookies are cleared.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := refreshTokenFrom(r); token != "" {
		h.Sessions.Revoke(ctx, token)
	}

	h.clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, nil, "User logged out successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword implements POST /api/v1/users/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := h.Users.FindByID(ctx, identity.ID)
	if err != nil {
		logger.Error("look up user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not change password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid old password")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not change password")
		return
	}

	if err := h.Users.UpdatePassword(ctx, identity.ID, string(hash)); err != nil {
		logger.Error("update password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not change password")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Password changed successfully")
}

// CurrentUser implements GET /api/v1/users/current-user.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	user, err := h.Users.FindByID(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch user")
		return
	}

	respondJSON(ctx, w, http.StatusOK, user, "Current user fetched successfully")
}

type updateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateDetails implements PATCH /api/v1/users/update-user.
func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" {
		respondError(ctx, w, http.StatusBadRequest, "Full name and email are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.Users.UpdateDetails(ctx, identity.ID, fullName, email); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "Email already in use")
			return
		}
		logger.Error("update user details", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update account details")
		return
	}

	user, err := h.Users.FindByID(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch user")
		return
	}

	respondJSON(ctx, w, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar implements PATCH /api/v1/users/update-avatar.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.Users.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage implements PATCH /api/v1/users/update-cover.
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.Users.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, persist func(ctx context.Context, id, url string) error, message string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	current, err := h.Users.FindByID(ctx, identity.ID)
	if err != nil {
		logger.Error("load user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch user")
		return
	}
	old := current.Avatar
	if field == "coverImage" {
		old = current.CoverImage
	}

	url, err := uploadFormFile(ctx, h.Media, r, field)
	if err != nil {
		if errors.Is(err, errMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, field+" file is required")
			return
		}
		logger.Error("upload image", "field", field, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store image")
		return
	}

	if err := persist(ctx, identity.ID, url); err != nil {
		logger.Error("persist image url", "field", field, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update image")
		return
	}

	if old != "" && old != url {
		if err := h.Media.Delete(ctx, old); err != nil {
			logger.Warn("delete replaced image", "field", field, "url", old, "error", err)
		}
	}

	user, err := h.Users.FindByID(ctx, identity.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch user")
		return
	}

	respondJSON(ctx, w, http.StatusOK, user, message)
}

// Channel implements GET /api/v1/users/c/{username}.
func (h *UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	username := strings.ToLower(strings.TrimSpace(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "Username is required")
		return
	}

	viewerID := ""
	if identity, ok := identityFrom(ctx); ok {
		viewerID = identity.ID
	}

	profile, err := h.Users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Channel does not exist")
			return
		}
		logger.Error("load channel profile", "username", username, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch channel")
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile, "Channel profile fetched successfully")
}

// WatchHistory implements GET /api/v1/users/history.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	entries, err := h.Users.WatchHistory(ctx, identity.ID)
	if err != nil {
		logging.FromContext(ctx).Error("load watch history", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch watch history")
		return
	}

	respondJSON(ctx, w, http.StatusOK, entries, "Watch history fetched successfully")
}

func (h *UserHandler) issueSession(w http.ResponseWriter, r *http.Request, user models.User) (models.SessionTokens, error) {
	tokens, err := h.Sessions.Issue(r.Context(), auth.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	})
	if err != nil {
		return models.SessionTokens{}, err
	}

	h.setAuthCookie(w, accessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt)
	h.setAuthCookie(w, refreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt)
	return tokens, nil
}

func (h *UserHandler) setAuthCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.CookieSecure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func refreshTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &body); err == nil {
		return strings.TrimSpace(body.RefreshToken)
	}
	return ""
}
