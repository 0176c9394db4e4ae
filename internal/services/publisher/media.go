package publisher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// openVideo streams a video from a URL or a local path
func openVideo(ctx context.Context, httpClient *http.Client, ref string) (io.ReadCloser, string, error) {
	name := filepath.Base(ref)
	if !isRemote(ref) {
		f, err := os.Open(ref)
		if err != nil {
			return nil, "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "video file is not readable")
		}
		return f, name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.UpstreamTransport("video download", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", apperrors.UpstreamRejected("video download", resp.StatusCode, resp.Status)
	}
	if u, err := url.Parse(ref); err == nil {
		name = path.Base(u.Path)
	}
	return resp.Body, name, nil
}

// readError turns a non-2xx response into an UpstreamRejected error
func readError(platform string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return apperrors.UpstreamRejected(platform, resp.StatusCode, msg)
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
