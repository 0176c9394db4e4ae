package types

import "github.com/mclantax/content-pipeline/internal/models"

// Status constants for API responses
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
	StatusQueued     = "queued"
)

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error"`             // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// ActionResponse acknowledges a review action
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ApproveResponse reports where an approved video was posted
type ApproveResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Platforms []string            `json:"platforms"`
	Results   []models.PostResult `json:"results"`
}

// GenerateResponse is returned when a pipeline run is queued
type GenerateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	JobID     uint   `json:"job_id"`
	StatusURL string `json:"status_url"`
}

// JobResponse for async job status
type JobResponse struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	JobID    string      `json:"jobId"`
	Type     string      `json:"type"`
	Stage    string      `json:"stage,omitempty"`
	Progress int         `json:"progress"` // 0-100
	Result   interface{} `json:"result,omitempty"`
	Error    *JobError   `json:"error,omitempty"`
}

// JobListResponse is a page of jobs in one status
type JobListResponse struct {
	Status string        `json:"status"`
	Jobs   []JobResponse `json:"jobs"`
	Count  int           `json:"count"`
}

// JobError describes why a job failed
type JobError struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// StatsResponse is the review dashboard summary
type StatsResponse struct {
	Pending      int64 `json:"pending"`
	Approved     int64 `json:"approved"`
	Rejected     int64 `json:"rejected"`
	RecentVideos int64 `json:"recent_videos"`
	TotalVideos  int64 `json:"total_videos"`
}
