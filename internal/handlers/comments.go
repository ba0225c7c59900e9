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

// CommentHandler implements the comment endpoints.
type CommentHandler struct {
	Comments CommentStore
}

type commentRequest struct {
	Content string `json:"content"`
}

// List implements GET /api/v1/comment/{videoId} with page and limit
// query parameters.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	query := r.URL.Query()
	page := intQueryParam(query.Get("page"), 1)
	limit := intQueryParam(query.Get("limit"), 20)

	viewerID := ""
	if identity, ok := identityFrom(ctx); ok {
		viewerID = identity.ID
	}

	comments, err := h.Comments.ListForVideo(ctx, videoID, viewerID, page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("load comments", "videoId", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch comments")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"comments": comments,
		"page":     page,
		"limit":    limit,
	}, "Comments fetched successfully")
}

// Create implements POST /api/v1/comment/{videoId}.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment := models.Comment{
		ID:      uuid.NewString(),
		VideoID: r.PathValue("videoId"),
		OwnerID: identity.ID,
		Content: content,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video does not exist")
			return
		}
		logger.Error("create comment", "videoId", comment.VideoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not add comment")
		return
	}

	created, err := h.Comments.FindByID(ctx, comment.ID)
	if err != nil {
		created = comment
	}

	respondJSON(ctx, w, http.StatusCreated, created, "Comment added successfully")
}

// Update implements PATCH /api/v1/comment/c/{commentId}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	comment, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Comment content is required")
		return
	}

	if err := h.Comments.UpdateContent(ctx, comment.ID, content); err != nil {
		logger.Error("update comment", "commentId", comment.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not update comment")
		return
	}

	updated, err := h.Comments.FindByID(ctx, comment.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch comment")
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated, "Comment updated successfully")
}

// Delete implements DELETE /api/v1/comment/c/{commentId}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		logging.FromContext(ctx).Error("delete comment", "commentId", comment.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not delete comment")
		return
	}

	respondJSON(ctx, w, http.StatusOK, nil, "Comment deleted successfully")
}

func (h *CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request) (models.Comment, bool) {
	ctx := r.Context()

	identity, ok := identityFrom(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return models.Comment{}, false
	}

	commentID := r.PathValue("commentId")
	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Comment does not exist")
			return models.Comment{}, false
		}
		logging.FromContext(ctx).Error("load comment", "commentId", commentID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Could not fetch comment")
		return models.Comment{}, false
	}

	if comment.OwnerID != identity.ID {
		respondError(ctx, w, http.StatusForbidden, "You do not own this comment")
		return models.Comment{}, false
	}

	return comment, true
}
