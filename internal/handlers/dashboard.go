package handlers

import (
	"net/http"

	"github.com/clipstream/backend/internal/logging"
)

// DashboardHandler implements the creator dashboard endpoints. All
// figures are scoped to the authenticated user's own channel.
type DashboardHandler struct {
	Videos VideoStore
}

// Stats implements GET /api/v1/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	stats, err := h.Videos.ChannelStats(ctx, identity.ID)
	if err != nil {
		logging.FromContext(ctx).Error("load channel stats", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch channel stats")
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// ChannelVideos implements GET /api/v1/dashboard/videos.
func (h *DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	videos, err := h.Videos.ChannelVideos(ctx, identity.ID)
	if err != nil {
		logging.FromContext(ctx).Error("load channel videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch channel videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, videos, "Channel videos fetched successfully")
}
