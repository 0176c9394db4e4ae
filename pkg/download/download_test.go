package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDownloader(t *testing.T) *Downloader {
	options := DefaultOptions()
	options.TempDir = t.TempDir()
	return NewDownloader(options)
}

func TestDownloadToTemp(t *testing.T) {
	body := strings.Repeat("frame", 256)

	tests := []struct {
		name         string
		handler      http.HandlerFunc
		path         string
		maxSize      int64
		wantErr      bool
		validateFunc func(t *testing.T, result *DownloadResult)
	}{
		{
			name: "video content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "video/*,*/*", r.Header.Get("Accept"))
				w.Header().Set("Content-Type", "video/mp4")
				_, _ = w.Write([]byte(body))
			},
			path: "/renders/clip.mov?sig=abc",
			validateFunc: func(t *testing.T, result *DownloadResult) {
				assert.Equal(t, int64(len(body)), result.ContentLength)
				assert.Equal(t, ".mov", filepath.Ext(result.FilePath))
				assert.True(t, strings.HasPrefix(filepath.Base(result.FilePath), "render_"))
				data, err := os.ReadFile(result.FilePath)
				require.NoError(t, err)
				assert.Equal(t, body, string(data))
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			path:    "/missing.mp4",
			wantErr: true,
		},
		{
			name: "html instead of video",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
			path:    "/page",
			wantErr: true,
		},
		{
			name: "body over size limit",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/octet-stream")
				w.(http.Flusher).Flush()
				_, _ = w.Write([]byte(body))
			},
			path:    "/big.mp4",
			maxSize: 10,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			d := newTestDownloader(t)
			if tt.maxSize > 0 {
				d.options.MaxSize = tt.maxSize
			}

			result, err := d.DownloadToTemp(context.Background(), server.URL+tt.path, "render")
			if tt.wantErr {
				assert.Error(t, err)
				entries, _ := os.ReadDir(d.options.TempDir)
				assert.Empty(t, entries)
				return
			}
			require.NoError(t, err)
			tt.validateFunc(t, result)
		})
	}
}

func TestDownloadTooLargeIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	d := newTestDownloader(t)
	d.options.MaxSize = 50
	_, err := d.DownloadToTemp(context.Background(), server.URL+"/v.mp4", "render")
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestCleanupOldTempFiles(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "render_old.mp4")
	newFile := filepath.Join(dir, "render_new.mp4")
	other := filepath.Join(dir, "keep.txt")
	for _, f := range []string{oldFile, newFile, other} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0644))
	}
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	removed, err := CleanupOldTempFiles(dir, "render_*", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
	assert.FileExists(t, other)
}

func TestCleanupTempFile(t *testing.T) {
	assert.NoError(t, CleanupTempFile(""))
	assert.NoError(t, CleanupTempFile(filepath.Join(t.TempDir(), "gone.mp4")))
}
