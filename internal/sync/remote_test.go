// ABOUTME: Tests for the HTTP remote client and error classification.
// ABOUTME: Exercises push/pull wire shapes and timeout detection.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRemotePush(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody pushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	remote := NewHTTPRemote(srv.URL, func() string { return "tok-1" }, time.Second)
	err := remote.Push(context.Background(), []Record{{
		Table:   "weight_logs",
		ID:      "w1",
		Version: 2,
		Payload: json.RawMessage(`{"id":"w1"}`),
	}})
	require.NoError(t, err)

	assert.Equal(t, "/v1/changes", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	require.Len(t, gotBody.Records, 1)
	assert.Equal(t, "w1", gotBody.Records[0].ID)
}

func TestHTTPRemotePull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cursor-1", r.URL.Query().Get("since"))
		_ = json.NewEncoder(w).Encode(pullResponse{
			Records: []Record{{Table: "sessions", ID: "s1", Version: 1}},
			Cursor:  "cursor-2",
		})
	}))
	defer srv.Close()

	remote := NewHTTPRemote(srv.URL, func() string { return "tok-1" }, time.Second)
	records, cursor, err := remote.Pull(context.Background(), "cursor-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].ID)
	assert.Equal(t, "cursor-2", cursor)
}

func TestHTTPRemoteServerErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	remote := NewHTTPRemote(srv.URL, func() string { return "" }, time.Second)
	err := remote.Push(context.Background(), nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "push", netErr.Op)
	assert.False(t, netErr.Timeout)
}

func TestNetworkErrorTimeoutClassification(t *testing.T) {
	deadline := netErr("pull", context.DeadlineExceeded)
	assert.True(t, deadline.Timeout)
	assert.Contains(t, deadline.Error(), "timed out")

	urlTimeout := netErr("push", &url.Error{Op: "Post", Err: context.DeadlineExceeded})
	assert.True(t, urlTimeout.Timeout)

	plain := netErr("push", errors.New("connection refused"))
	assert.False(t, plain.Timeout)
	assert.Contains(t, plain.Error(), "failed")
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := netErr("push", inner)
	assert.ErrorIs(t, err, inner)
}
