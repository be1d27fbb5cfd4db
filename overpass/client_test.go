package overpass

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestQuery(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "POST", r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "[out:json];way(1);out;", string(body))
		_, _ = w.Write([]byte(testSample))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Query(context.Background(), "[out:json];way(1);out;")
	require.NoError(t, err)
	assert.Len(t, resp.Ways, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(testSample))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).WithMaxElapsed(10*time.Second).Query(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, resp.Nodes, 6)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryBadRequestIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "parse error: line 1", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Query(context.Background(), "nonsense")
	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, http.StatusBadRequest, qe.StatusCode)
	assert.Contains(t, qe.Body, "parse error")
	assert.False(t, qe.Temporary())
	assert.Equal(t, int32(1), calls.Load())
}
