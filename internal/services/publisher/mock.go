package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// MockClient pretends to post and returns canonical-looking URLs
type MockClient struct {
	platform string
	handle   string
	log      *logger.Logger
	now      func() time.Time
}

func NewMockClient(platform, handle string, log *logger.Logger) *MockClient {
	return &MockClient{platform: platform, handle: handle, log: log, now: time.Now}
}

func (m *MockClient) Platform() string { return m.platform }

func (m *MockClient) Post(_ context.Context, videoRef, caption string) (Receipt, error) {
	id := fmt.Sprintf("%s_%d", m.platform, m.now().Unix())

	var postURL string
	switch m.platform {
	case models.PlatformInstagram:
		postURL = "https://instagram.com/p/" + id
	case models.PlatformYouTubeShorts:
		postURL = "https://youtube.com/shorts/" + id
	default:
		postURL = tiktokURL(m.handle, id)
	}

	m.log.Info("Mock post", "platform", m.platform, "video", videoRef, "post_id", id, "caption_len", len(caption))
	return Receipt{PostID: id, URL: postURL}, nil
}
