package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
	"github.com/timmy/photofeed/internal/feed"
	"github.com/timmy/photofeed/internal/pipeline"
	"github.com/timmy/photofeed/internal/repository"
)

func newFeedRouter(remotePage pipeline.FeedPageFunc, seed []domain.FeedImage, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	local := feed.NewLocalFeedLoader(repository.NewMemoryStore(), time.Now)
	if seed != nil {
		_ = local.Save(context.Background(), seed)
	}
	h := NewFeedHandler(pipeline.NewFeedPipeline(remotePage, local, limit))

	r := gin.New()
	r.GET("/api/v1/feed", h.GetFeed)
	return r
}

func performRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetFeedReturnsRemotePage(t *testing.T) {
	images := []domain.FeedImage{
		{ID: uuid.New(), URL: "https://example.com/1.jpg"},
		{ID: uuid.New(), URL: "https://example.com/2.jpg"},
	}
	r := newFeedRouter(func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		return images, nil
	}, nil, 2)

	w := performRequest(r, "/api/v1/feed")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp feedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(resp.Items))
	}
	if resp.Items[0].ID != images[0].ID.String() || resp.Items[0].Image != images[0].URL {
		t.Errorf("item 0 = %+v, want %+v", resp.Items[0], images[0])
	}
	if !resp.HasMore || resp.NextAfterID == nil || *resp.NextAfterID != images[1].ID.String() {
		t.Errorf("continuation wrong: has_more=%v next=%v", resp.HasMore, resp.NextAfterID)
	}
}

func TestGetFeedServesCacheWhenUpstreamFails(t *testing.T) {
	cached := []domain.FeedImage{{ID: uuid.New(), URL: "https://example.com/cached.jpg"}}
	r := newFeedRouter(func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		return nil, errors.New("upstream down")
	}, cached, 10)

	w := performRequest(r, "/api/v1/feed")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp feedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != cached[0].ID.String() {
		t.Errorf("items = %+v, want the cached feed", resp.Items)
	}
	if resp.HasMore {
		t.Error("short cached feed should not advertise more pages")
	}
}

func TestGetFeedRejectsMalformedCursor(t *testing.T) {
	r := newFeedRouter(func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		t.Error("remote should not be called for a malformed cursor")
		return nil, nil
	}, nil, 10)

	w := performRequest(r, "/api/v1/feed?after_id=not-a-uuid")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetFeedNextPageUsesCursor(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	cached := []domain.FeedImage{
		{ID: a, URL: "https://example.com/a.jpg"},
		{ID: b, URL: "https://example.com/b.jpg"},
	}
	next := domain.FeedImage{ID: uuid.New(), URL: "https://example.com/c.jpg"}
	r := newFeedRouter(func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
		if afterID == nil || *afterID != b {
			t.Errorf("afterID = %v, want %v", afterID, b)
		}
		return []domain.FeedImage{next}, nil
	}, cached, 2)

	w := performRequest(r, "/api/v1/feed?after_id="+b.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp feedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want cached plus fetched", len(resp.Items))
	}
	if resp.Items[2].ID != next.ID.String() {
		t.Errorf("last item = %+v, want the freshly fetched one", resp.Items[2])
	}
	if resp.HasMore {
		t.Error("short page should be terminal")
	}
}
