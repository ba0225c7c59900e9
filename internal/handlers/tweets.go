package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// TweetHandler implements the tweet endpoints.
type TweetHandler struct {
	Tweets TweetStore
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create implements POST /api/v1/tweet.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Tweet content is required")
		return
	}

	tweet := models.Tweet{
		ID:      uuid.NewString(),
		OwnerID: identity.ID,
		Content: content,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("create tweet", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not create tweet")
		return
	}

	created, err := h.Tweets.FindByID(ctx, tweet.ID)
	if err != nil {
		created = tweet
	}

	respondJSON(ctx, w, http.StatusCreated, created, "Tweet created successfully")
}

// ListForUser implements GET /api/v1/tweet/user/{userId}.
func (h *TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	tweets, err := h.Tweets.ListForUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("load tweets", "userId", userID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch tweets")
		return
	}

	respondJSON(ctx, w, http.StatusOK, tweets, "Tweets fetched successfully")
}

// Update implements PATCH /api/v1/tweet/{tweetId}.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	tweet, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Tweet content is required")
		return
	}

	if err := h.Tweets.UpdateContent(ctx, tweet.ID, content); err != nil {
		logger.Error("update tweet", "tweetId", tweet.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update tweet")
		return
	}

	updated, err := h.Tweets.FindByID(ctx, tweet.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch tweet")
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "Tweet updated successfully")
}

// Delete implements DELETE /api/v1/tweet/{tweetId}.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		logging.FromContext(ctx).Error("delete tweet", "tweetId", tweet.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not delete tweet")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Tweet deleted successfully")
}

func (h *TweetHandler) ownedTweet(w http.ResponseWriter, r *http.Request) (models.Tweet, bool) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return models.Tweet{}, false
	}

	tweetID := r.PathValue("tweetId")
	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Tweet does not exist")
			return models.Tweet{}, false
		}
		logging.FromContext(ctx).Error("load tweet", "tweetId", tweetID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch tweet")
		return models.Tweet{}, false
	}

	if tweet.OwnerID != identity.ID {
		respondError(ctx, w, http.StatusForbidden, "You do not own this tweet")
		return models.Tweet{}, false
	}

	return tweet, true
}
