package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

var errTransport = errors.New("transport down")

// clientStub returns canned responses for the HTTPClient boundary.
type clientStub struct {
	body   []byte
	status int
	err    error

	requestedURLs []string
}

func (c *clientStub) Get(ctx context.Context, url string) ([]byte, int, error) {
	c.requestedURLs = append(c.requestedURLs, url)
	return c.body, c.status, c.err
}

func TestLoaderReportsConnectivityErrorOnTransportFailure(t *testing.T) {
	client := &clientStub{err: errTransport}
	loader := NewLoader(client, FeedItemsMapper)

	if _, err := loader.Load(context.Background(), "https://example.com/v1/feed"); !errors.Is(err, ErrConnectivity) {
		t.Errorf("expected ErrConnectivity, got %v", err)
	}
}

func TestLoaderReportsInvalidDataOnNon200Status(t *testing.T) {
	for _, status := range []int{199, 201, 300, 400, 500} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			client := &clientStub{body: []byte(`{"items":[]}`), status: status}
			loader := NewLoader(client, FeedItemsMapper)

			if _, err := loader.Load(context.Background(), "https://example.com/v1/feed"); !errors.Is(err, ErrInvalidData) {
				t.Errorf("expected ErrInvalidData, got %v", err)
			}
		})
	}
}

func TestLoaderReportsInvalidDataOnMalformedPayload(t *testing.T) {
	client := &clientStub{body: []byte("not json"), status: http.StatusOK}
	loader := NewLoader(client, FeedItemsMapper)

	if _, err := loader.Load(context.Background(), "https://example.com/v1/feed"); !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}
}

func TestLoaderDeliversMappedItemsOn200(t *testing.T) {
	id := uuid.New()
	payload := fmt.Sprintf(`{"items":[{"id":%q,"description":"desc","location":null,"image":"https://example.com/a.jpg"}]}`, id)
	client := &clientStub{body: []byte(payload), status: http.StatusOK}
	loader := NewLoader(client, FeedItemsMapper)

	images, err := loader.Load(context.Background(), "https://example.com/v1/feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	img := images[0]
	if img.ID != id {
		t.Errorf("id = %v, want %v", img.ID, id)
	}
	if img.Description == nil || *img.Description != "desc" {
		t.Errorf("description = %v, want %q", img.Description, "desc")
	}
	if img.Location != nil {
		t.Errorf("location = %v, want nil", img.Location)
	}
	if img.URL != "https://example.com/a.jpg" {
		t.Errorf("url = %q", img.URL)
	}
}

func TestImageCommentsMapperAccepts2xx(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	payload := fmt.Sprintf(`{"items":[{"id":%q,"message":"nice shot","created_at":%q,"username":"ana"}]}`,
		id, created.Format(time.RFC3339))

	for _, status := range []int{200, 201, 250, 299} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			comments, err := ImageCommentsMapper([]byte(payload), status)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(comments) != 1 {
				t.Fatalf("got %d comments, want 1", len(comments))
			}
			c := comments[0]
			if c.ID != id || c.Message != "nice shot" || c.Username != "ana" || !c.CreatedAt.Equal(created) {
				t.Errorf("unexpected comment %+v", c)
			}
		})
	}
}

func TestImageCommentsMapperRejectsNon2xx(t *testing.T) {
	for _, status := range []int{199, 300, 404, 500} {
		if _, err := ImageCommentsMapper([]byte(`{"items":[]}`), status); err == nil {
			t.Errorf("status %d: expected error", status)
		}
	}
}

func TestImageDataLoaderRequiresOKAndNonEmptyBody(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		status int
		want   error
	}{
		{"non-200 status", []byte("bytes"), http.StatusNotFound, ErrInvalidData},
		{"empty body", []byte{}, http.StatusOK, ErrInvalidData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loader := NewImageDataLoader(&clientStub{body: tc.body, status: tc.status})
			if _, err := loader.LoadData(context.Background(), "https://example.com/a.jpg"); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestImageDataLoaderDeliversBytes(t *testing.T) {
	loader := NewImageDataLoader(&clientStub{body: []byte{0xCA, 0xFE}, status: http.StatusOK})

	got, err := loader.LoadData(context.Background(), "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 0xCA {
		t.Errorf("got %v, want delivered bytes", got)
	}
}

func TestRestyClientPerformsGetAndHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	}))
	defer server.Close()

	client := NewRestyClient(5 * time.Second)

	body, status, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", status, http.StatusTeapot)
	}
	if string(body) != "body" {
		t.Errorf("body = %q", body)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestFeedEndpoint(t *testing.T) {
	base := "https://api.example.com"

	if got := FeedEndpoint(base, 10, nil); got != "https://api.example.com/v1/feed?limit=10" {
		t.Errorf("first page URL = %q", got)
	}

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	want := "https://api.example.com/v1/feed?after_id=11111111-2222-3333-4444-555555555555&limit=10"
	if got := FeedEndpoint(base, 10, &id); got != want {
		t.Errorf("cursor page URL = %q, want %q", got, want)
	}
}

func TestImageCommentsEndpoint(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	want := "https://api.example.com/v1/image/11111111-2222-3333-4444-555555555555/comments"
	if got := ImageCommentsEndpoint("https://api.example.com", id); got != want {
		t.Errorf("comments URL = %q, want %q", got, want)
	}
}
