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

// PlaylistHandler implements the playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create implements POST /api/v1/playlist.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     identity.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		logging.FromContext(ctx).Error("create playlist", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not create playlist")
		return
	}

	created, err := h.Playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		created = playlist
	}

	respondJSON(ctx, w, http.StatusCreated, created, "Playlist created successfully")
}

// Get implements GET /api/v1/playlist/{playlistId}.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID := r.PathValue("playlistId")
	detail, err := h.Playlists.Detail(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Playlist does not exist")
			return
		}
		logging.FromContext(ctx).Error("load playlist", "playlistId", playlistID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, detail, "Playlist fetched successfully")
}

// ListForUser implements GET /api/v1/playlist/user/{userId}.
func (h *PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	playlists, err := h.Playlists.ListForUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("load playlists", "userId", userID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch playlists")
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlists, "Playlists fetched successfully")
}

// Update implements PATCH /api/v1/playlist/{playlistId}.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = playlist.Name
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = playlist.Description
	}

	if err := h.Playlists.Update(ctx, playlist.ID, name, description); err != nil {
		logger.Error("update playlist", "playlistId", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update playlist")
		return
	}

	updated, err := h.Playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "Playlist updated successfully")
}

// Delete implements DELETE /api/v1/playlist/{playlistId}.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		logging.FromContext(ctx).Error("delete playlist", "playlistId", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not delete playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideo implements PATCH /api/v1/playlist/add/{videoId}/{playlistId}.
// Adding a video already present leaves the playlist unchanged.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video does not exist")
			return
		}
		logger.Error("load video", "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch video")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		logger.Error("add video to playlist", "playlistId", playlist.ID, "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not add video to playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Video added to playlist successfully")
}

// RemoveVideo implements PATCH /api/v1/playlist/remove/{videoId}/{playlistId}.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	videoID := r.PathValue("videoId")
	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video is not in this playlist")
			return
		}
		logging.FromContext(ctx).Error("remove video from playlist", "playlistId", playlist.ID, "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not remove video from playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Video removed from playlist successfully")
}

func (h *PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return models.Playlist{}, false
	}

	playlistID := r.PathValue("playlistId")
	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Playlist does not exist")
			return models.Playlist{}, false
		}
		logging.FromContext(ctx).Error("load playlist", "playlistId", playlistID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch playlist")
		return models.Playlist{}, false
	}

	if playlist.OwnerID != identity.ID {
		respondError(ctx, w, http.StatusForbidden, "You do not own this playlist")
		return models.Playlist{}, false
	}

	return playlist, true
}
