package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
)

var errStore = errors.New("store failure")

// storeSpy records the order of store calls and lets tests stub results.
// retrieveGate, when set, blocks Retrieve until the test releases it so
// close-while-in-flight behavior can be exercised.
type storeSpy struct {
	mu       sync.Mutex
	messages []string

	cached      *CachedFeed
	retrieveErr error
	deleteErr   error
	insertErr   error

	insertedFeed []LocalFeedImage
	insertedAt   time.Time

	retrieveStarted chan struct{}
	retrieveGate    chan struct{}
}

func (s *storeSpy) record(msg string) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

func (s *storeSpy) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *storeSpy) Retrieve(ctx context.Context) (*CachedFeed, error) {
	s.record("retrieve")
	if s.retrieveStarted != nil {
		close(s.retrieveStarted)
	}
	if s.retrieveGate != nil {
		<-s.retrieveGate
	}
	return s.cached, s.retrieveErr
}

func (s *storeSpy) Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	s.record("insert")
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	s.insertedFeed = feed
	s.insertedAt = timestamp
	s.mu.Unlock()
	return nil
}

func (s *storeSpy) DeleteCachedFeed(ctx context.Context) error {
	s.record("delete")
	return s.deleteErr
}

func uniqueImage() domain.FeedImage {
	desc := "a description"
	loc := "a location"
	return domain.FeedImage{
		ID:          uuid.New(),
		Description: &desc,
		Location:    &loc,
		URL:         "https://example.com/" + uuid.New().String() + ".jpg",
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func assertCalls(t interface {
	Helper()
	Errorf(format string, args ...interface{})
}, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("store calls = %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("store calls = %v, want %v", got, want)
			return
		}
	}
}
