package adapter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
)

func TestNewsdataFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("apikey"), "test-key")
		gt.Equal(t, r.URL.Query().Get("language"), "en")
		gt.Equal(t, r.URL.Query().Get("country"), "us")
		gt.Equal(t, r.URL.Query().Get("prioritydomain"), "top")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Senate Passes Budget","content":"full text","description":"short","link":"https://example.com/1"},
			{"title":"","content":"no title, dropped","description":"","link":""},
			{"title":"Court Rules on Tariffs","content":"","description":"desc only","link":"https://example.com/2"}
		]}`))
	}))
	defer srv.Close()

	feed := adapter.NewNewsdataFeed("test-key", adapter.WithFeedEndpoint(srv.URL))
	candidates, err := feed.Fetch(context.Background())
	gt.NoError(t, err)
	gt.A(t, candidates).Length(2)
	gt.Equal(t, candidates[0].Title, "Senate Passes Budget")
	gt.Equal(t, candidates[0].Body(), "full text")
	gt.Equal(t, candidates[1].Body(), "desc only")
}

func TestNewsdataFetchNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	feed := adapter.NewNewsdataFeed("test-key", adapter.WithFeedEndpoint(srv.URL))
	_, err := feed.Fetch(context.Background())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUpstreamFetch))
}

func TestNewsdataFetchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	feed := adapter.NewNewsdataFeed("test-key", adapter.WithFeedEndpoint(srv.URL))
	_, err := feed.Fetch(context.Background())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUpstreamFetch))
}

func TestNewsdataFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	feed := adapter.NewNewsdataFeed("test-key",
		adapter.WithFeedEndpoint(srv.URL),
		adapter.WithFeedHTTPClient(&http.Client{Timeout: 10 * time.Millisecond}))

	_, err := feed.Fetch(context.Background())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUpstreamTimeout))
}
