package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

func newPlaylistRequest(method, videoID, playlistID string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/playlist/add/"+videoID+"/"+playlistID, nil)
	req.SetPathValue("videoId", videoID)
	req.SetPathValue("playlistId", playlistID)
	return req
}

func TestPlaylistHandlerAddVideoIsIdempotent(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Mix"}
	video := models.Video{ID: uuid.NewString(), OwnerID: owner.ID, IsPublished: true}

	playlists := newFakePlaylistStore(playlist)
	handler := PlaylistHandler{Playlists: playlists, Videos: newFakeVideoStore(video)}

	for i := 0; i < 2; i++ {
		req := withIdentity(newPlaylistRequest(http.MethodPatch, video.ID, playlist.ID), owner)
		rec := httptest.NewRecorder()
		handler.AddVideo(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("add attempt %d: expected status 200 got %d", i+1, rec.Code)
		}
	}

	if got := len(playlists.members[playlist.ID]); got != 1 {
		t.Fatalf("expected video stored once, got %d entries", got)
	}
}

func TestPlaylistHandlerAddVideoRejectsNonOwner(t *testing.T) {
	owner := uuid.NewString()
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: owner, Name: "Mix"}
	video := models.Video{ID: uuid.NewString(), OwnerID: owner, IsPublished: true}

	playlists := newFakePlaylistStore(playlist)
	handler := PlaylistHandler{Playlists: playlists, Videos: newFakeVideoStore(video)}

	req := withIdentity(newPlaylistRequest(http.MethodPatch, video.ID, playlist.ID), auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.AddVideo(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
	if len(playlists.members[playlist.ID]) != 0 {
		t.Fatal("expected playlist unchanged after forbidden add")
	}
}

func TestPlaylistHandlerAddVideoMissingTargets(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Mix"}

	handler := PlaylistHandler{Playlists: newFakePlaylistStore(playlist), Videos: newFakeVideoStore()}

	req := withIdentity(newPlaylistRequest(http.MethodPatch, uuid.NewString(), playlist.ID), owner)
	rec := httptest.NewRecorder()
	handler.AddVideo(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing video got %d", rec.Code)
	}

	req = withIdentity(newPlaylistRequest(http.MethodPatch, uuid.NewString(), uuid.NewString()), owner)
	rec = httptest.NewRecorder()
	handler.AddVideo(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing playlist got %d", rec.Code)
	}
}

func TestPlaylistHandlerRemoveVideo(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	playlist := models.Playlist{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Mix"}
	video := models.Video{ID: uuid.NewString(), OwnerID: owner.ID, IsPublished: true}

	playlists := newFakePlaylistStore(playlist)
	playlists.members[playlist.ID] = []string{video.ID}
	handler := PlaylistHandler{Playlists: playlists, Videos: newFakeVideoStore(video)}

	req := withIdentity(newPlaylistRequest(http.MethodPatch, video.ID, playlist.ID), owner)
	rec := httptest.NewRecorder()
	handler.RemoveVideo(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	req = withIdentity(newPlaylistRequest(http.MethodPatch, video.ID, playlist.ID), owner)
	rec = httptest.NewRecorder()
	handler.RemoveVideo(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 removing absent video got %d", rec.Code)
	}
}
