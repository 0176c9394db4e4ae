package publisher

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output_with_captions_1.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake-mp4-bytes"), 0644))
	return path
}

func TestTikTokClientPost(t *testing.T) {
	var (
		gotText, gotPrivacy, gotVideo, gotAuth string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/share/video/upload/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotText = r.FormValue("text")
		gotPrivacy = r.FormValue("privacy_level")
		f, _, err := r.FormFile("video")
		if err == nil {
			b, _ := io.ReadAll(f)
			gotVideo = string(b)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"video_id": "7300"})
	}))
	defer server.Close()

	c := NewTikTokClient("tt-token", server.URL, "@mclantax", 5*time.Second)
	r, err := c.Post(context.Background(), writeVideo(t), "Baby knows taxes")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tt-token", gotAuth)
	assert.Equal(t, "Baby knows taxes @mclantax", gotText)
	assert.Equal(t, "SELF_ONLY", gotPrivacy)
	assert.Equal(t, "fake-mp4-bytes", gotVideo)
	assert.Equal(t, "7300", r.PostID)
	assert.Equal(t, "https://tiktok.com/@mclantax/video/7300", r.URL)
}

func TestTikTokClientErrors(t *testing.T) {
	t.Run("server error is retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewTikTokClient("t", server.URL, "@h", time.Second).Post(context.Background(), writeVideo(t), "c")
		assert.True(t, apperrors.IsRetryable(err))
	})

	t.Run("missing file is permanent", func(t *testing.T) {
		_, err := NewTikTokClient("t", "http://127.0.0.1:1", "@h", time.Second).Post(context.Background(), "/nope/video.mp4", "c")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
		assert.False(t, apperrors.IsRetryable(err))
	})
}

func TestInstagramClientPost(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ig-token", q.Get("access_token"))
		switch r.URL.Path {
		case "/me/media":
			assert.Equal(t, "VIDEO", q.Get("media_type"))
			assert.Equal(t, "https://cdn.example.org/v.mp4", q.Get("video_url"))
			assert.Equal(t, "Reel time @mclantax", q.Get("caption"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case "/me/media_publish":
			assert.Equal(t, "container-1", q.Get("creation_id"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "media-9"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewInstagramClient("ig-token", server.URL, "@mclantax", 5*time.Second)
	r, err := c.Post(context.Background(), "https://cdn.example.org/v.mp4", "Reel time")
	require.NoError(t, err)
	assert.Equal(t, []string{"/me/media", "/me/media_publish"}, calls)
	assert.Equal(t, "media-9", r.PostID)
	assert.Equal(t, "https://instagram.com/p/media-9", r.URL)
}

func TestInstagramClientRequiresURL(t *testing.T) {
	c := NewInstagramClient("ig-token", "http://127.0.0.1:1", "@mclantax", time.Second)
	_, err := c.Post(context.Background(), "/local/file.mp4", "x")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestYouTubeClientPost(t *testing.T) {
	var (
		meta  youtubeMetadata
		video string
		query string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if !assert.NoError(t, err) || !assert.Equal(t, "multipart/related", mediaType) {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])

		part, err := mr.NextPart()
		if assert.NoError(t, err) {
			assert.NoError(t, json.NewDecoder(part).Decode(&meta))
		}
		part, err = mr.NextPart()
		if assert.NoError(t, err) {
			assert.Equal(t, "video/mp4", part.Header.Get("Content-Type"))
			b, _ := io.ReadAll(part)
			video = string(b)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "yt-123"})
	}))
	defer server.Close()

	caption := strings.Repeat("Baby Gives SAVAGE Tax Advice ", 6)
	c := NewYouTubeClient("yt-token", server.URL, "@mclantax", 5*time.Second)
	r, err := c.Post(context.Background(), writeVideo(t), caption)
	require.NoError(t, err)

	assert.Contains(t, query, "uploadType=multipart")
	assert.Equal(t, 100, len([]rune(meta.Snippet.Title)))
	assert.Equal(t, "23", meta.Snippet.CategoryID)
	assert.Equal(t, "private", meta.Status.PrivacyStatus)
	assert.Contains(t, meta.Snippet.Tags, "mclantax")
	assert.Contains(t, meta.Snippet.Description, "@mclantax")
	assert.Equal(t, "fake-mp4-bytes", video)
	assert.Equal(t, "https://youtube.com/shorts/yt-123", r.URL)
}

func TestOpenVideoRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp4" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer server.Close()

	rc, name, err := openVideo(context.Background(), server.Client(), server.URL+"/clip.mp4?sig=abc")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "remote-bytes", string(b))
	assert.Equal(t, "clip.mp4", name)

	_, _, err = openVideo(context.Background(), server.Client(), server.URL+"/missing.mp4")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
}
