package handlers

import (
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/repositories"
)

// SubscriptionHandler implements the subscription graph endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
}

// Toggle implements POST /api/v1/subscriptions/c/{channelId}.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	channelID := r.PathValue("channelId")
	if channelID == identity.ID {
		respondError(ctx, w, http.StatusBadRequest, "You cannot subscribe to yourself")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, identity.ID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "Channel does not exist")
		case errors.Is(err, repositories.ErrConflict):
			respondError(ctx, w, http.StatusBadRequest, "You cannot subscribe to yourself")
		default:
			logging.FromContext(ctx).Error("toggle subscription", "channelId", channelID, "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Could not toggle subscription")
		}
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribed": subscribed}, message)
}

// Subscribers implements GET /api/v1/subscriptions/c/{channelId}.
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	subscribers, err := h.Subscriptions.Subscribers(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("load subscribers", "channelId", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch subscribers")
		return
	}

	respondJSON(ctx, w, http.StatusOK, subscribers, "Subscribers fetched successfully")
}

// SubscribedChannels implements GET /api/v1/subscriptions/u/{subscriberId}.
func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID := r.PathValue("subscriberId")
	channels, err := h.Subscriptions.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		logging.FromContext(ctx).Error("load subscribed channels", "subscriberId", subscriberID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch subscribed channels")
		return
	}

	respondJSON(ctx, w, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
