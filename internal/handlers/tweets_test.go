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

func TestTweetHandlerCreate(t *testing.T) {
	tweets := newFakeTweetStore()
	handler := TweetHandler{Tweets: tweets}
	author := auth.Identity{ID: uuid.NewString()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweet", strings.NewReader(`{"content":"shipping today"}`))
	req = withIdentity(req, author)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope.Data.(map[string]any)
	if data["content"] != "shipping today" || data["ownerId"] != author.ID {
		t.Fatalf("unexpected tweet payload: %v", data)
	}
	if len(tweets.tweets) != 1 {
		t.Fatalf("expected 1 stored tweet, got %d", len(tweets.tweets))
	}
}

func TestTweetHandlerCreateRejectsBlankContent(t *testing.T) {
	handler := TweetHandler{Tweets: newFakeTweetStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweet", strings.NewReader(`{"content":" "}`))
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestTweetHandlerUpdateRequiresOwnership(t *testing.T) {
	owner := auth.Identity{ID: uuid.NewString()}
	tweet := models.Tweet{ID: uuid.NewString(), OwnerID: owner.ID, Content: "draft"}
	tweets := newFakeTweetStore(tweet)
	handler := TweetHandler{Tweets: tweets}

	update := func(identity auth.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/tweet/"+tweet.ID, strings.NewReader(`{"content":"final"}`))
		req.SetPathValue("tweetId", tweet.ID)
		req = withIdentity(req, identity)
		rec := httptest.NewRecorder()
		handler.Update(rec, req)
		return rec
	}

	if rec := update(auth.Identity{ID: uuid.NewString()}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-owner got %d", rec.Code)
	}
	if tweets.tweets[tweet.ID].Content != "draft" {
		t.Fatalf("expected content untouched after forbidden update")
	}

	if rec := update(owner); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for owner got %d", rec.Code)
	}
	if tweets.tweets[tweet.ID].Content != "final" {
		t.Fatalf("expected content updated by owner")
	}
}

func TestTweetHandlerDeleteMissing(t *testing.T) {
	handler := TweetHandler{Tweets: newFakeTweetStore()}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tweet/"+uuid.NewString(), nil)
	req.SetPathValue("tweetId", uuid.NewString())
	req = withIdentity(req, auth.Identity{ID: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestTweetHandlerListForUser(t *testing.T) {
	author := uuid.NewString()
	tweets := newFakeTweetStore(
		models.Tweet{ID: uuid.NewString(), OwnerID: author, Content: "mine"},
		models.Tweet{ID: uuid.NewString(), OwnerID: uuid.NewString(), Content: "someone else's"},
	)
	handler := TweetHandler{Tweets: tweets}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweet/user/"+author, nil)
	req.SetPathValue("userId", author)
	req = withIdentity(req, auth.Identity{ID: author})
	rec := httptest.NewRecorder()

	handler.ListForUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	listed := envelope.Data.([]any)
	if len(listed) != 1 {
		t.Fatalf("expected 1 tweet for the author, got %d", len(listed))
	}
}
