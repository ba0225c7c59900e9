package handlers

import (
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// LikeHandler implements like toggles and the liked-videos listing.
type LikeHandler struct {
	Likes LikeStore
}

// ToggleVideo implements POST /api/v1/likes/toggle/v/{videoId}.
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, r.PathValue("videoId"), "Video")
}

// ToggleComment implements POST /api/v1/likes/toggle/c/{commentId}.
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, r.PathValue("commentId"), "Comment")
}

// ToggleTweet implements POST /api/v1/likes/toggle/t/{tweetId}.
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, r.PathValue("tweetId"), "Tweet")
}

// LikedVideos implements GET /api/v1/likes/videos.
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	videos, err := h.Likes.LikedVideos(ctx, identity.ID)
	if err != nil {
		logging.FromContext(ctx).Error("load liked videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch liked videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, videos, "Liked videos fetched successfully")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, targetID, label string) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	liked, err := h.Likes.Toggle(ctx, identity.ID, target, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, label+" does not exist")
			return
		}
		logging.FromContext(ctx).Error("toggle like", "target", string(target), "targetId", targetID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not toggle like")
		return
	}

	message := label + " unliked successfully"
	if liked {
		message = label + " liked successfully"
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"isLiked": liked}, message)
}
