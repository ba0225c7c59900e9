package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type fakeSubscriptionStore struct {
	pairs map[string]bool
}

func (s *fakeSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	if channelID == "missing" {
		return false, repositories.ErrNotFound
	}
	key := subscriberID + "/" + channelID
	s.pairs[key] = !s.pairs[key]
	return s.pairs[key], nil
}

func (s *fakeSubscriptionStore) Subscribers(_ context.Context, _ string) ([]models.Subscriber, error) {
	return nil, nil
}

func (s *fakeSubscriptionStore) SubscribedChannels(_ context.Context, _ string) ([]models.SubscribedChannel, error) {
	return nil, nil
}

func subscriptionToggleRequest(channelID string, identity auth.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+channelID, nil)
	req.SetPathValue("channelId", channelID)
	return withIdentity(req, identity)
}

func TestSubscriptionHandlerTogglePairs(t *testing.T) {
	store := &fakeSubscriptionStore{pairs: make(map[string]bool)}
	handler := SubscriptionHandler{Subscriptions: store}
	fan := auth.Identity{ID: uuid.NewString()}
	channelID := uuid.NewString()

	rec := httptest.NewRecorder()
	handler.Toggle(rec, subscriptionToggleRequest(channelID, fan))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if data := envelope.Data.(map[string]any); data["subscribed"] != true {
		t.Fatalf("expected first toggle to subscribe, got %v", data)
	}

	rec = httptest.NewRecorder()
	handler.Toggle(rec, subscriptionToggleRequest(channelID, fan))
	envelope = decodeEnvelope(t, rec)
	if data := envelope.Data.(map[string]any); data["subscribed"] != false {
		t.Fatalf("expected second toggle to unsubscribe, got %v", data)
	}
}

func TestSubscriptionHandlerRejectsSelfSubscription(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: &fakeSubscriptionStore{pairs: make(map[string]bool)}}
	fan := auth.Identity{ID: uuid.NewString()}

	rec := httptest.NewRecorder()
	handler.Toggle(rec, subscriptionToggleRequest(fan.ID, fan))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestSubscriptionHandlerMissingChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: &fakeSubscriptionStore{pairs: make(map[string]bool)}}

	rec := httptest.NewRecorder()
	handler.Toggle(rec, subscriptionToggleRequest("missing", auth.Identity{ID: uuid.NewString()}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}
