package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const (
	defaultYouTubeURL = "https://www.googleapis.com/upload/youtube/v3/videos"
	youtubeComedy     = "23"
	youtubeTitleLimit = 100
)

var youtubeTags = []string{"tax", "finance", "baby", "comedy", "shorts", "viral"}

// YouTubeClient uploads Shorts with the Data API multipart upload
type YouTubeClient struct {
	httpClient *http.Client
	uploadURL  string
	handle     string
}

func NewYouTubeClient(accessToken, uploadURL, handle string, timeout time.Duration) *YouTubeClient {
	if uploadURL == "" {
		uploadURL = defaultYouTubeURL
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	httpClient.Timeout = timeout
	return &YouTubeClient{httpClient: httpClient, uploadURL: uploadURL, handle: handle}
}

func (c *YouTubeClient) Platform() string { return models.PlatformYouTubeShorts }

type youtubeMetadata struct {
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		CategoryID  string   `json:"categoryId"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

func (c *YouTubeClient) metadata(caption string) youtubeMetadata {
	var m youtubeMetadata
	title := []rune(strings.TrimSpace(caption))
	if len(title) > youtubeTitleLimit {
		title = title[:youtubeTitleLimit]
	}
	m.Snippet.Title = string(title)
	m.Snippet.Description = fmt.Sprintf("%s\n\n%s\n\n#Shorts #Tax #Finance #Baby #Viral", caption, c.handle)
	m.Snippet.Tags = append(youtubeTags, strings.ToLower(strings.TrimPrefix(c.handle, "@")))
	m.Snippet.CategoryID = youtubeComedy
	m.Status.PrivacyStatus = "private"
	return m
}

func (c *YouTubeClient) Post(ctx context.Context, videoRef, caption string) (Receipt, error) {
	meta, err := json.Marshal(c.metadata(caption))
	if err != nil {
		return Receipt{}, fmt.Errorf("marshal metadata: %w", err)
	}
	video, _, err := openVideo(ctx, c.httpClient, videoRef)
	if err != nil {
		return Receipt{}, err
	}
	defer video.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
		if err == nil {
			_, err = part.Write(meta)
		}
		if err == nil {
			part, err = mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"video/mp4"}})
		}
		if err == nil {
			_, err = io.Copy(part, video)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	endpoint := c.uploadURL + "?uploadType=multipart&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return Receipt{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Receipt{}, apperrors.UpstreamTransport("youtube", err)
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return Receipt{}, readError("youtube", resp)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Receipt{}, apperrors.UpstreamTransport("youtube", fmt.Errorf("decode response: %w", err))
	}
	if out.ID == "" {
		return Receipt{}, apperrors.UpstreamRejected("youtube", resp.StatusCode, "response has no id")
	}
	return Receipt{PostID: out.ID, URL: "https://youtube.com/shorts/" + out.ID}, nil
}
