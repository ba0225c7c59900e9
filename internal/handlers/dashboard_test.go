package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

func TestDashboardHandlerStats(t *testing.T) {
	videos := newFakeVideoStore()
	videos.stats = models.ChannelStats{
		TotalViews:       30,
		TotalLikes:       4,
		TotalVideos:      2,
		TotalSubscribers: 5,
	}
	handler := DashboardHandler{Videos: videos}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %T", envelope.Data)
	}
	if data["totalViews"] != float64(30) || data["totalLikes"] != float64(4) {
		t.Fatalf("unexpected stats payload: %v", data)
	}
}

func TestDashboardHandlerRequiresAuth(t *testing.T) {
	handler := DashboardHandler{Videos: newFakeVideoStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestDashboardHandlerChannelVideosScopedToOwner(t *testing.T) {
	owner := uuid.NewString()
	mine := models.Video{ID: uuid.NewString(), OwnerID: owner, IsPublished: false}
	theirs := models.Video{ID: uuid.NewString(), OwnerID: uuid.NewString(), IsPublished: true}

	handler := DashboardHandler{Videos: newFakeVideoStore(mine, theirs)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil)
	req = withIdentity(req, auth.Identity{ID: owner})
	rec := httptest.NewRecorder()

	handler.ChannelVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	rows, ok := envelope.Data.([]any)
	if !ok {
		t.Fatalf("unexpected data payload: %T", envelope.Data)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the owner's video, got %d rows", len(rows))
	}
}
