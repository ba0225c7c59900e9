package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

const maxVideoUploadMemory = 64 << 20

// VideoHandler implements the video catalogue endpoints.
type VideoHandler struct {
	Videos VideoStore
	Users  UserStore
	Media  MediaStore
}

// Feed implements GET /api/v1/video. Supports query, userId, sortBy,
// sortType, page and limit query parameters; only published videos are
// returned.
func (h *VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	params := repositories.FeedParams{
		Query:    strings.TrimSpace(query.Get("query")),
		OwnerID:  strings.TrimSpace(query.Get("userId")),
		SortBy:   query.Get("sortBy"),
		SortDesc: !strings.EqualFold(query.Get("sortType"), "asc"),
		Page:     intQueryParam(query.Get("page"), 1),
		Limit:    intQueryParam(query.Get("limit"), 10),
	}

	videos, err := h.Videos.Feed(ctx, params)
	if err != nil {
		logging.FromContext(ctx).Error("load video feed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"videos": videos,
		"page":   params.Page,
		"limit":  params.Limit,
	}, "Videos fetched successfully")
}

// Publish implements POST /api/v1/video. The multipart body carries
// title, description and duration fields plus the videoFile and
// thumbnail uploads. The video is created as a draft.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := r.ParseMultipartForm(maxVideoUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, http.StatusBadRequest, "Title and description are required")
		return
	}

	duration, err := strconv.ParseFloat(r.FormValue("duration"), 64)
	if err != nil || duration <= 0 {
		respondError(ctx, w, http.StatusBadRequest, "A positive duration is required")
		return
	}

	videoURL, err := uploadFormFile(ctx, h.Media, r, "videoFile")
	if err != nil {
		if errors.Is(err, errMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, "Video file is required")
			return
		}
		logger.Error("upload video file", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store video")
		return
	}

	thumbnailURL, err := uploadFormFile(ctx, h.Media, r, "thumbnail")
	if err != nil {
		if errors.Is(err, errMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, "Thumbnail file is required")
			return
		}
		logger.Error("upload thumbnail", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store thumbnail")
		return
	}

	// New uploads start as drafts; TogglePublish flips them live.
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     identity.ID,
		Title:       title,
		Description: description,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		IsPublished: false,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("create video", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not upload video")
		return
	}

	created, err := h.Videos.FindByID(ctx, video.ID)
	if err != nil {
		created = video
	}

	respondJSON(ctx, w, http.StatusCreated, created, "Video uploaded successfully")
}

// Get implements GET /api/v1/video/{videoId}. Viewing a video bumps
// its view counter and records it in the viewer's watch history.
// Unpublished videos are only visible to their owner.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID := r.PathValue("videoId")

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	detail, err := h.Videos.Detail(ctx, videoID, identity.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video does not exist")
			return
		}
		logger.Error("load video", "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch video")
		return
	}

	if !detail.IsPublished && detail.OwnerID != identity.ID {
		respondError(ctx, w, http.StatusNotFound, "Video does not exist")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logger.Warn("increment view count", "videoId", videoID, "error", err)
	} else {
		detail.Views++
	}
	if err := h.Users.AddWatchHistory(ctx, identity.ID, videoID); err != nil {
		logger.Warn("record watch history", "videoId", videoID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, detail, "Video fetched successfully")
}

// Update implements PATCH /api/v1/video/{videoId}. The multipart body
// may carry new title and description fields and an optional thumbnail.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		title = video.Title
	}
	if description == "" {
		description = video.Description
	}

	thumbnail := video.Thumbnail
	url, err := uploadFormFile(ctx, h.Media, r, "thumbnail")
	switch {
	case err == nil:
		thumbnail = url
	case errors.Is(err, errMissingFile):
		// keep the existing thumbnail
	default:
		logger.Error("upload thumbnail", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not store thumbnail")
		return
	}

	if err := h.Videos.UpdateDetails(ctx, video.ID, title, description, thumbnail); err != nil {
		logger.Error("update video", "videoId", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update video")
		return
	}

	if thumbnail != video.Thumbnail && video.Thumbnail != "" {
		if err := h.Media.Delete(ctx, video.Thumbnail); err != nil {
			logger.Warn("delete replaced thumbnail", "url", video.Thumbnail, "error", err)
		}
	}

	updated, err := h.Videos.FindByID(ctx, video.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch video")
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "Video updated successfully")
}

// Delete implements DELETE /api/v1/video/{videoId}. The stored media
// objects are removed best effort after the database row is gone.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		logger.Error("delete video", "videoId", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not delete video")
		return
	}

	for _, url := range []string{video.VideoFile, video.Thumbnail} {
		if url == "" {
			continue
		}
		if err := h.Media.Delete(ctx, url); err != nil {
			logger.Warn("delete stored media", "url", url, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish implements PATCH /api/v1/video/toggle/publish/{videoId}.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.SetPublished(ctx, video.ID, !video.IsPublished); err != nil {
		logger.Error("toggle publish state", "videoId", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update publish state")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"isPublished": !video.IsPublished,
	}, "Publish state toggled successfully")
}

// ownedVideo loads the addressed video and verifies the authenticated
// user owns it, writing the error response itself when either fails.
func (h *VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (models.Video, bool) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return models.Video{}, false
	}

	videoID := r.PathValue("videoId")
	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video does not exist")
			return models.Video{}, false
		}
		logging.FromContext(ctx).Error("load video", "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch video")
		return models.Video{}, false
	}

	if video.OwnerID != identity.ID {
		respondError(ctx, w, http.StatusForbidden, "You do not own this video")
		return models.Video{}, false
	}

	return video, true
}

func intQueryParam(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
