package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
)

type document struct {
	Videos []models.VideoRecord `json:"videos"`
}

// FileRepository keeps records in a single JSON document on disk.
// Every write replaces the file through a temp file and rename.
type FileRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileRepository creates a repository backed by path. The file is created
// on the first write.
func NewFileRepository(path string) (*FileRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) load() (*document, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &document{Videos: []models.VideoRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}
	var doc document
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding store: %w", err)
		}
	}
	if doc.Videos == nil {
		doc.Videos = []models.VideoRecord{}
	}
	return &doc, nil
}

func (r *FileRepository) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".videos-*.json")
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

func (r *FileRepository) List(_ context.Context, status models.VideoStatus, limit int) ([]models.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.VideoRecord, 0, len(doc.Videos))
	for _, v := range doc.Videos {
		if v.Status == status {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FileRepository) Get(_ context.Context, id string) (*models.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Videos {
		if doc.Videos[i].ID == id {
			v := doc.Videos[i]
			return &v, nil
		}
	}
	return nil, ErrVideoNotFound
}

func (r *FileRepository) GetByJobID(_ context.Context, jobID uint) (*models.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Videos {
		if doc.Videos[i].JobID != nil && *doc.Videos[i].JobID == jobID {
			v := doc.Videos[i]
			return &v, nil
		}
	}
	return nil, ErrVideoNotFound
}

func (r *FileRepository) Create(_ context.Context, v *models.VideoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range doc.Videos {
		if existing.ID == v.ID {
			return fmt.Errorf("video %s already exists", v.ID)
		}
	}
	doc.Videos = append(doc.Videos, *v)
	return r.save(doc)
}

func (r *FileRepository) Update(_ context.Context, v *models.VideoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	for i := range doc.Videos {
		if doc.Videos[i].ID == v.ID {
			doc.Videos[i] = *v
			return r.save(doc)
		}
	}
	return ErrVideoNotFound
}

func (r *FileRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return 0, err
	}
	return int64(len(doc.Videos)), nil
}

func (r *FileRepository) Stats(_ context.Context, since time.Time) (models.VideoStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats models.VideoStats
	doc, err := r.load()
	if err != nil {
		return stats, err
	}
	for _, v := range doc.Videos {
		addCount(&stats, v.Status, 1)
		if !v.CreatedAt.Before(since) {
			stats.RecentVideos++
		}
	}
	return stats, nil
}
