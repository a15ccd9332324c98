package sync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/testutil"
)

func TestHTTPDeliverer_PostsEnvelope(t *testing.T) {
	var received syncEnvelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	item := testutil.NewTestSyncItem("project", "p1")
	item.Payload = []byte(`{"name":"North Field"}`)

	d := NewHTTPDeliverer(server.URL)
	require.NoError(t, d.Deliver(context.Background(), item))

	assert.Equal(t, "project", received.EntityType)
	assert.Equal(t, "p1", received.EntityID)
	assert.Equal(t, string(domain.OpCreate), received.Operation)
	assert.JSONEq(t, `{"name":"North Field"}`, string(received.Payload))
}

func TestHTTPDeliverer_NonSuccessIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer server.Close()

	d := NewHTTPDeliverer(server.URL)
	err := d.Deliver(context.Background(), testutil.NewTestSyncItem("table", "t1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}
