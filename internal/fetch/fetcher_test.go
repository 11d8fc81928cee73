package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProgress struct {
	total    int64
	added    int
	finished bool
}

func (r *recordingProgress) SetTotal(total int64) { r.total = total }
func (r *recordingProgress) Add(n int)            { r.added += n }
func (r *recordingProgress) Finish()              { r.finished = true }

func newArchiveServer(t *testing.T, body []byte, hits *int32) *httptest.Server {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/archive/{version}.zip", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(body)
	}).Methods(http.MethodGet)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_Fetch(t *testing.T) {
	var hits int32
	body := []byte("PK fake archive content")
	server := newArchiveServer(t, body, &hits)

	progress := &recordingProgress{}
	fetcher := NewFetcher(server.Client(), func(string) Progress { return progress })
	dest := filepath.Join(t.TempDir(), "nested", "0.1.1.zip")

	downloaded, err := fetcher.Fetch(context.Background(), server.URL+"/archive/0.1.1.zip", dest)
	require.NoError(t, err)
	assert.True(t, downloaded)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, data)

	assert.Equal(t, int64(len(body)), progress.total)
	assert.Equal(t, len(body), progress.added)
	assert.True(t, progress.finished)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetcher_Fetch_SkipsExistingFile(t *testing.T) {
	var hits int32
	server := newArchiveServer(t, []byte("new"), &hits)

	dest := filepath.Join(t.TempDir(), "0.1.1.zip")
	require.NoError(t, os.WriteFile(dest, []byte("cached"), 0644))

	downloaded, err := NewFetcher(server.Client(), nil).Fetch(context.Background(), server.URL+"/archive/0.1.1.zip", dest)
	require.NoError(t, err)
	assert.False(t, downloaded)
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits), "no request expected for a cached archive")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
}

func TestFetcher_Fetch_ErrorStatus(t *testing.T) {
	var hits int32
	server := newArchiveServer(t, nil, &hits)

	dest := filepath.Join(t.TempDir(), "missing.zip")
	_, err := NewFetcher(server.Client(), nil).Fetch(context.Background(), server.URL+"/nothing-here", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file behind")
}
