package scrape

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><title>hi</title></html>"))
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(
		WithRate(time.Millisecond),
		WithUserAgent("test-agent"),
		WithCache(FileCache{Dir: t.TempDir()}),
	)

	for i := 0; i < 3; i++ {
		body, err := c.Get(ctx, srv.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "<html><title>hi</title></html>", string(body))
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(WithRate(time.Millisecond)).Get(context.Background(), srv.URL)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := New(WithRate(time.Millisecond), WithMaxElapsed(20*time.Second)).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFileCacheMiss(t *testing.T) {
	_, ok, err := FileCache{Dir: t.TempDir()}.Get(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
