package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

func TestCommentHandlerCreate(t *testing.T) {
	comments := newFakeCommentStore()
	handler := CommentHandler{Comments: comments}
	author := auth.Identity{ID: uuid.NewString()}
	videoID := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/comment/"+videoID, strings.NewReader(`{"content":"  great clip  "}`))
	req.SetPathValue("videoId", videoID)
	req = withIdentity(req, author)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope.Data.(map[string]any)
	if data["content"] != "great clip" {
		t.Fatalf("expected trimmed content, got %v", data["content"])
	}
	if data["ownerId"] != author.ID {
		t.Fatalf("expected comment owned by the caller, got %v", data["ownerId"])
	}
}

func TestCommentHandlerCreateMissingVideo(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/comment/missing", strings.NewReader(`{"content":"hello"}`))
	req.SetPathValue("videoId", "missing")
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestCommentHandlerCreateRejectsBlankContent(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/comment/"+uuid.NewString(), strings.NewReader(`{"content":"   "}`))
	req.SetPathValue("videoId", uuid.NewString())
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestCommentHandlerUpdateRequiresOwnership(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	intruder := auth.Identity{ID: uuid.NewString()}
	comment := models.Comment{ID: uuid.NewString(), VideoID: uuid.NewString(), OwnerID: owner.ID, Content: "original"}
	comments := newFakeCommentStore(comment)
	handler := CommentHandler{Comments: comments}

	update := func(identity auth.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/comment/c/"+comment.ID, strings.NewReader(`{"content":"revised"}`))
		req.SetPathValue("commentId", comment.ID)
		req = withIdentity(req, identity)
		rec := httptest.NewRecorder()
		handler.Update(rec, req)
		return rec
	}

	if rec := update(intruder); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-owner got %d", rec.Code)
	}
	if comments.comments[comment.ID].Content != "original" {
		t.Fatalf("expected content untouched after forbidden update")
	}

	if rec := update(owner); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for owner got %d", rec.Code)
	}
	if comments.comments[comment.ID].Content != "revised" {
		t.Fatalf("expected content updated by owner")
	}
}

func TestCommentHandlerDelete(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	comment := models.Comment{ID: uuid.NewString(), VideoID: uuid.NewString(), OwnerID: owner.ID, Content: "bye"}
	comments := newFakeCommentStore(comment)
	handler := CommentHandler{Comments: comments}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comment/c/"+comment.ID, nil)
	req.SetPathValue("commentId", comment.ID)
	req = withIdentity(req, owner)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if _, ok := comments.comments[comment.ID]; ok {
		t.Fatalf("expected comment removed")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/comment/c/"+comment.ID, nil)
	req.SetPathValue("commentId", comment.ID)
	req = withIdentity(req, owner)
	handler.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 deleting twice got %d", rec.Code)
	}
}

func TestCommentHandlerListReturnsVideoComments(t *testing.T) {
	videoID := uuid.NewString()
	comments := newFakeCommentStore(
		models.Comment{ID: uuid.NewString(), VideoID: videoID, OwnerID: uuid.NewString(), Content: "on topic"},
		models.Comment{ID: uuid.NewString(), VideoID: uuid.NewString(), OwnerID: uuid.NewString(), Content: "elsewhere"},
	)
	handler := CommentHandler{Comments: comments}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comment/"+videoID, nil)
	req.SetPathValue("videoId", videoID)
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope.Data.(map[string]any)
	listed := data["comments"].([]any)
	if len(listed) != 1 {
		t.Fatalf("expected 1 comment for the video, got %d", len(listed))
	}
	if data["page"] != float64(1) || data["limit"] != float64(20) {
		t.Fatalf("expected default pagination of page 1 limit 20, got page=%v limit=%v", data["page"], data["limit"])
	}
}
