package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const defaultTikTokURL = "https://open-api.tiktok.com"

// TikTokClient uploads videos through the TikTok share API
type TikTokClient struct {
	httpClient *http.Client
	baseURL    string
	handle     string
}

// NewTikTokClient authenticates requests with a bearer token
func NewTikTokClient(accessToken, baseURL, handle string, timeout time.Duration) *TikTokClient {
	if baseURL == "" {
		baseURL = defaultTikTokURL
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	httpClient.Timeout = timeout
	return &TikTokClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), handle: handle}
}

func (c *TikTokClient) Platform() string { return models.PlatformTikTok }

func (c *TikTokClient) Post(ctx context.Context, videoRef, caption string) (Receipt, error) {
	video, name, err := openVideo(ctx, c.httpClient, videoRef)
	if err != nil {
		return Receipt{}, err
	}
	defer video.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		fields := map[string]string{
			"text":                 strings.TrimSpace(caption + " " + c.handle),
			"privacy_level":        "SELF_ONLY",
			"disable_duet":         "false",
			"disable_comment":      "false",
			"disable_stitch":       "false",
			"brand_content_toggle": "false",
		}
		for k, v := range fields {
			if err := mw.WriteField(k, v); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		part, err := mw.CreateFormFile("video", name)
		if err == nil {
			_, err = io.Copy(part, video)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/share/video/upload/", pr)
	if err != nil {
		pr.Close()
		return Receipt{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Receipt{}, apperrors.UpstreamTransport("tiktok", err)
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return Receipt{}, readError("tiktok", resp)
	}

	var out struct {
		VideoID string `json:"video_id"`
		Data    struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Receipt{}, apperrors.UpstreamTransport("tiktok", fmt.Errorf("decode response: %w", err))
	}
	id := out.VideoID
	if id == "" {
		id = out.Data.VideoID
	}
	if id == "" {
		return Receipt{}, apperrors.UpstreamRejected("tiktok", resp.StatusCode, "response has no video_id")
	}
	return Receipt{PostID: id, URL: tiktokURL(c.handle, id)}, nil
}

func tiktokURL(handle, id string) string {
	return fmt.Sprintf("https://tiktok.com/@%s/video/%s", strings.TrimPrefix(handle, "@"), id)
}
