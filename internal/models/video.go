package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// VideoStatus is the review state of a generated video
type VideoStatus string

const (
	VideoStatusPending  VideoStatus = "pending"
	VideoStatusApproved VideoStatus = "approved"
	VideoStatusRejected VideoStatus = "rejected"
)

// ParseVideoStatus validates a status filter
func ParseVideoStatus(s string) (VideoStatus, bool) {
	switch VideoStatus(s) {
	case VideoStatusPending, VideoStatusApproved, VideoStatusRejected:
		return VideoStatus(s), true
	}
	return "", false
}

// Captions maps dashboard caption keys (tiktok, instagram, youtube) to copy.
// Stored as a JSON blob.
type Captions map[string]string

// Value implements driver.Valuer interface for Captions
func (c Captions) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for Captions
func (c *Captions) Scan(value interface{}) error {
	*c = make(Captions)
	return scanJSON(value, c)
}

// VideoRecord is the unit of review and publishing state. Pending records move
// to approved or rejected exactly once.
type VideoRecord struct {
	ID              string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Trend           string                      `json:"trend" gorm:"not null"`
	Script          string                      `json:"script" gorm:"type:text"`
	VideoURL        string                      `json:"videoUrl" gorm:"column:video_url"`
	Captions        Captions                    `json:"captions" gorm:"type:text"`
	Status          VideoStatus                 `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	CreatedAt       time.Time                   `json:"created_at" gorm:"index"`
	ApprovedAt      *time.Time                  `json:"approved_at"`
	PostedPlatforms datatypes.JSONSlice[string] `json:"posted_platforms"`
	JobID           *uint                       `json:"job_id,omitempty" gorm:"index"`
}

// TableName specifies the table name for GORM
func (VideoRecord) TableName() string {
	return "videos"
}

// IsTerminal reports whether the record has left review
func (v *VideoRecord) IsTerminal() bool {
	return v.Status == VideoStatusApproved || v.Status == VideoStatusRejected
}

// CanTransition reports whether the record may move to the target status
func (v *VideoRecord) CanTransition(to VideoStatus) bool {
	if v.Status != VideoStatusPending {
		return false
	}
	return to == VideoStatusApproved || to == VideoStatusRejected
}

// VideoStats aggregates review counts
type VideoStats struct {
	Pending      int64 `json:"pending"`
	Approved     int64 `json:"approved"`
	Rejected     int64 `json:"rejected"`
	RecentVideos int64 `json:"recent_videos"`
	TotalVideos  int64 `json:"total_videos"`
}
