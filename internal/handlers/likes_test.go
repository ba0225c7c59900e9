package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
)

func TestLikeHandlerTogglePairs(t *testing.T) {
	likes := newFakeLikeStore()
	handler := LikeHandler{Likes: likes}
	userID := uuid.NewString()
	videoID := uuid.NewString()

	toggle := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, nil)
		req.SetPathValue("videoId", videoID)
		req = withIdentity(req, auth.Identity{ID: userID})
		rec := httptest.NewRecorder()
		handler.ToggleVideo(rec, req)
		return rec
	}

	rec := toggle()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if data := envelope.Data.(map[string]any); data["isLiked"] != true {
		t.Fatalf("expected first toggle to like, got %v", data)
	}

	rec = toggle()
	envelope = decodeEnvelope(t, rec)
	if data := envelope.Data.(map[string]any); data["isLiked"] != false {
		t.Fatalf("expected second toggle to unlike, got %v", data)
	}
}

func TestLikeHandlerToggleMissingTarget(t *testing.T) {
	handler := LikeHandler{Likes: newFakeLikeStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/missing", nil)
	req.SetPathValue("videoId", "missing")
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ToggleVideo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestLikeHandlerRequiresAuth(t *testing.T) {
	handler := LikeHandler{Likes: newFakeLikeStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	rec := httptest.NewRecorder()

	handler.LikedVideos(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}
