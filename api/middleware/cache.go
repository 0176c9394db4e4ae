package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/internal/services/cache"
)

// CacheOptions configures ResponseCache
type CacheOptions struct {
	Cache cache.Cache
	TTL   time.Duration
}

// cachedResponse is what gets stored per request key
type cachedResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	ETag        string    `json:"etag"`
	CachedAt    time.Time `json:"cached_at"`
}

// recorder tees the response body so it can be stored after the handler runs
type recorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *recorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// ResponseCache serves repeated GET requests from the cache for opts.TTL.
// Only 200 responses are stored. A nil cache or a non-positive TTL turns the
// middleware into a pass-through.
func ResponseCache(opts CacheOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Cache == nil || opts.TTL <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		if bypassCache(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(c.Request)

		var hit cachedResponse
		if cache.GetJSON(ctx, opts.Cache, key, &hit) {
			c.Header("X-Cache", "HIT")
			c.Header("ETag", hit.ETag)
			c.Header("Age", fmt.Sprintf("%d", int(time.Since(hit.CachedAt).Seconds())))
			c.Data(hit.Status, hit.ContentType, hit.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		rec := &recorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		entry := cachedResponse{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
			ETag:        etag(rec.body.Bytes()),
			CachedAt:    time.Now(),
		}
		_ = cache.SetJSON(ctx, opts.Cache, key, entry, opts.TTL)
	}
}

// bypassCache honours no-cache, no-store and max-age=0 from the client
func bypassCache(req *http.Request) bool {
	if req.Header.Get("Pragma") == "no-cache" {
		return true
	}
	for _, directive := range strings.Split(strings.ToLower(req.Header.Get("Cache-Control")), ",") {
		switch strings.TrimSpace(directive) {
		case "no-cache", "no-store", "max-age=0":
			return true
		}
	}
	return false
}

// cacheKey is the path plus query parameters in sorted order
func cacheKey(req *http.Request) string {
	parts := []string{req.URL.Path}
	params := req.URL.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, k+"="+v)
		}
	}
	return "http:" + strings.Join(parts, ":")
}

func etag(body []byte) string {
	hash := sha256.Sum256(body)
	return `"` + hex.EncodeToString(hash[:8]) + `"`
}
