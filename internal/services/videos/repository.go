package videos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mclantax/content-pipeline/internal/models"
)

// ErrVideoNotFound is returned by repositories for unknown ids
var ErrVideoNotFound = errors.New("video not found")

// Repository defines the interface for review record persistence
type Repository interface {
	List(ctx context.Context, status models.VideoStatus, limit int) ([]models.VideoRecord, error)
	Get(ctx context.Context, id string) (*models.VideoRecord, error)
	GetByJobID(ctx context.Context, jobID uint) (*models.VideoRecord, error)
	Create(ctx context.Context, v *models.VideoRecord) error
	Update(ctx context.Context, v *models.VideoRecord) error
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context, since time.Time) (models.VideoStats, error)
}

// GormRepository stores records in the videos table
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new review record repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// List returns records in the given status, newest first
func (r *GormRepository) List(ctx context.Context, status models.VideoStatus, limit int) ([]models.VideoRecord, error) {
	var out []models.VideoRecord
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return out, nil
}

// Get retrieves a record by id
func (r *GormRepository) Get(ctx context.Context, id string) (*models.VideoRecord, error) {
	var v models.VideoRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("getting video: %w", err)
	}
	return &v, nil
}

// GetByJobID retrieves the record produced by a queued run
func (r *GormRepository) GetByJobID(ctx context.Context, jobID uint) (*models.VideoRecord, error) {
	var v models.VideoRecord
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("getting video by job: %w", err)
	}
	return &v, nil
}

// Create inserts a new record
func (r *GormRepository) Create(ctx context.Context, v *models.VideoRecord) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("creating video: %w", err)
	}
	return nil
}

// Update replaces an existing record inside a transaction
func (r *GormRepository) Update(ctx context.Context, v *models.VideoRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VideoRecord{}).Where("id = ?", v.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("finding video to update: %w", err)
		}
		if count == 0 {
			return ErrVideoNotFound
		}
		if err := tx.Save(v).Error; err != nil {
			return fmt.Errorf("updating video: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored records
func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.VideoRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting videos: %w", err)
	}
	return n, nil
}

// Stats aggregates records by status
func (r *GormRepository) Stats(ctx context.Context, since time.Time) (models.VideoStats, error) {
	var stats models.VideoStats
	var rows []struct {
		Status models.VideoStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.VideoRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, fmt.Errorf("counting videos by status: %w", err)
	}
	for _, row := range rows {
		addCount(&stats, row.Status, row.Count)
	}

	err = r.db.WithContext(ctx).
		Model(&models.VideoRecord{}).
		Where("created_at >= ?", since).
		Count(&stats.RecentVideos).Error
	if err != nil {
		return stats, fmt.Errorf("counting recent videos: %w", err)
	}
	return stats, nil
}

func addCount(stats *models.VideoStats, status models.VideoStatus, n int64) {
	switch status {
	case models.VideoStatusPending:
		stats.Pending += n
	case models.VideoStatusApproved:
		stats.Approved += n
	case models.VideoStatusRejected:
		stats.Rejected += n
	default:
		return
	}
	stats.TotalVideos += n
}
