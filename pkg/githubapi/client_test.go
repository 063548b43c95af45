package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, arg ...any)                    {}
func (nopLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) Info(ctx context.Context, arg ...any)                     {}
func (nopLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (nopLogger) Warn(ctx context.Context, arg ...any)                     {}
func (nopLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (nopLogger) Error(ctx context.Context, arg ...any)                    {}
func (nopLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (nopLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (nopLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (nopLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (nopLogger) Panic(ctx context.Context, arg ...any)                    {}
func (nopLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func TestFetchUser(t *testing.T) {
	t.Run("Cache Hit Avoids Second Fetch", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprintf(w, `{"html_url":"https://github.com%s"}`, r.URL.Path[len("/users"):])
		}))
		defer server.Close()

		client := NewClient("", "", nopLogger{})
		client.SetAPIURL(server.URL)

		user, ok := client.FetchUser(context.Background(), "xfix")
		if !ok || user.HTMLURL != "https://github.com/xfix" {
			t.Fatalf("unexpected result %+v ok=%v", user, ok)
		}
		if _, ok := client.FetchUser(context.Background(), "xfix"); !ok {
			t.Fatalf("expected cached hit")
		}
		if calls.Load() != 1 {
			t.Errorf("expected exactly one network call, got %d", calls.Load())
		}
	})

	t.Run("Failure Is Not Cached", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"html_url":"https://github.com/xfix"}`)
		}))
		defer server.Close()

		client := NewClient("", "", nopLogger{})
		client.SetAPIURL(server.URL)

		if _, ok := client.FetchUser(context.Background(), "xfix"); ok {
			t.Fatalf("expected failure on first fetch")
		}
		if _, ok := client.FetchUser(context.Background(), "xfix"); !ok {
			t.Fatalf("expected retry to succeed")
		}
		if calls.Load() != 2 {
			t.Errorf("expected a retry after failure, got %d calls", calls.Load())
		}
	})

	t.Run("LRU Evicts Oldest Past Capacity", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"html_url":"https://example.com"}`)
		}))
		defer server.Close()

		client := NewClient("", "", nopLogger{})
		client.SetAPIURL(server.URL)

		for i := 0; i <= cacheSize; i++ {
			client.FetchUser(context.Background(), fmt.Sprintf("user%d", i))
		}
		before := calls.Load()
		// user0 was least recently used and must have been evicted.
		client.FetchUser(context.Background(), "user0")
		if calls.Load() != before+1 {
			t.Errorf("expected refetch of evicted entry")
		}
		// The most recent entry is still cached.
		client.FetchUser(context.Background(), fmt.Sprintf("user%d", cacheSize))
		if calls.Load() != before+1 {
			t.Errorf("expected most recent entry to stay cached")
		}
	})
}
