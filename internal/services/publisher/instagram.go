package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const defaultInstagramURL = "https://graph.instagram.com/v17.0"

// InstagramClient publishes Reels through the Graph API in two steps:
// create a media container from a public video URL, then publish it.
type InstagramClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	handle      string
}

func NewInstagramClient(accessToken, baseURL, handle string, timeout time.Duration) *InstagramClient {
	if baseURL == "" {
		baseURL = defaultInstagramURL
	}
	return &InstagramClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		handle:      handle,
	}
}

func (c *InstagramClient) Platform() string { return models.PlatformInstagram }

func (c *InstagramClient) Post(ctx context.Context, videoRef, caption string) (Receipt, error) {
	if !isRemote(videoRef) {
		return Receipt{}, apperrors.ValidationError("video", "instagram requires a publicly reachable video URL")
	}

	params := url.Values{}
	params.Set("media_type", "VIDEO")
	params.Set("video_url", videoRef)
	params.Set("caption", strings.TrimSpace(caption+" "+c.handle))
	params.Set("access_token", c.accessToken)

	creationID, err := c.call(ctx, "/me/media", params)
	if err != nil {
		return Receipt{}, err
	}

	publish := url.Values{}
	publish.Set("creation_id", creationID)
	publish.Set("access_token", c.accessToken)
	mediaID, err := c.call(ctx, "/me/media_publish", publish)
	if err != nil {
		return Receipt{}, err
	}
	if mediaID == "" {
		mediaID = creationID
	}
	return Receipt{PostID: mediaID, URL: "https://instagram.com/p/" + mediaID}, nil
}

func (c *InstagramClient) call(ctx context.Context, path string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.UpstreamTransport("instagram", err)
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return "", readError("instagram", resp)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.UpstreamTransport("instagram", fmt.Errorf("decode response: %w", err))
	}
	if out.ID == "" && path == "/me/media" {
		return "", apperrors.UpstreamRejected("instagram", resp.StatusCode, "media container has no id")
	}
	return out.ID, nil
}
