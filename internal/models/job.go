package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the status of a job in the queue
type JobStatus string

const (
	JobStatusPending           JobStatus = "pending"
	JobStatusProcessing        JobStatus = "processing"
	JobStatusCompleted         JobStatus = "completed"
	JobStatusFailed            JobStatus = "failed"
	JobStatusPermanentlyFailed JobStatus = "permanently_failed"
	JobStatusCancelled         JobStatus = "cancelled"
)

// JobType represents the type of job to be processed
type JobType string

const (
	// JobTypePipelineRun executes all six content stages and stores a pending video
	JobTypePipelineRun JobType = "pipeline_run"
	// JobTypePublish posts an approved video outside the request cycle
	JobTypePublish JobType = "publish"
)

// JobErrorType represents the category of error that occurred
type JobErrorType string

const (
	ErrorTypeUpstream   JobErrorType = "upstream"   // external API failed or refused
	ErrorTypeTimeout    JobErrorType = "timeout"    // generation or run deadline exceeded
	ErrorTypeValidation JobErrorType = "validation" // bad input, never retried
	ErrorTypeProcessing JobErrorType = "processing" // ffmpeg or local media failure
	ErrorTypeSystem     JobErrorType = "system"     // database, worker, or other system error
	ErrorTypeNotFound   JobErrorType = "not_found"  // resource permanently not found
)

// StructuredJobError represents a structured error with classification information
type StructuredJobError struct {
	Type     JobErrorType
	Code     string
	Message  string
	Details  string
	Original error
}

func (e *StructuredJobError) Error() string {
	return e.Message
}

func (e *StructuredJobError) Unwrap() error {
	return e.Original
}

// Permanent reports whether retrying the job cannot help
func (e *StructuredJobError) Permanent() bool {
	return e.Type == ErrorTypeValidation || e.Type == ErrorTypeNotFound
}

func newJobError(t JobErrorType, code, message, details string, originalErr error) *StructuredJobError {
	return &StructuredJobError{
		Type:     t,
		Code:     code,
		Message:  message,
		Details:  details,
		Original: originalErr,
	}
}

// NewUpstreamError creates an external-service structured error
func NewUpstreamError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeUpstream, code, message, details, originalErr)
}

// NewTimeoutError creates a deadline structured error
func NewTimeoutError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeTimeout, code, message, details, originalErr)
}

// NewValidationError creates an input structured error
func NewValidationError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeValidation, code, message, details, originalErr)
}

// NewProcessingError creates a media-processing structured error
func NewProcessingError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeProcessing, code, message, details, originalErr)
}

// NewSystemError creates a system-related structured error
func NewSystemError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeSystem, code, message, details, originalErr)
}

// NewNotFoundError creates a not-found error that should result in permanent failure
func NewNotFoundError(code, message, details string, originalErr error) *StructuredJobError {
	return newJobError(ErrorTypeNotFound, code, message, details, originalErr)
}

// Job represents a background job in the queue
type Job struct {
	gorm.Model
	Type         JobType    `json:"type" gorm:"not null;index:idx_jobs_type_status"`
	Status       JobStatus  `json:"status" gorm:"default:'pending';index:idx_jobs_status_priority"`
	Payload      JobPayload `json:"payload" gorm:"type:json"`
	Priority     int        `json:"priority" gorm:"default:0;index:idx_jobs_status_priority"`
	MaxRetries   int        `json:"max_retries" gorm:"default:1"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
	Progress     int        `json:"progress" gorm:"default:0"` // 0-100
	Stage        string     `json:"stage,omitempty"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastFailedAt *time.Time `json:"last_failed_at"`
	Error        string     `json:"error,omitempty"`
	Result       JobResult  `json:"result,omitempty" gorm:"type:json"`
	WorkerID     string     `json:"worker_id,omitempty"`

	ErrorType    string `json:"error_type,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`

	CreatedBy string `json:"created_by,omitempty"`
}

// JobPayload represents the input data for a job
type JobPayload map[string]interface{}

// Value implements driver.Valuer interface for JobPayload
func (p JobPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return jsonText(p)
}

// Scan implements sql.Scanner interface for JobPayload
func (p *JobPayload) Scan(value interface{}) error {
	*p = make(JobPayload)
	return scanJSON(value, p)
}

// JobResult represents the output data from a completed job
type JobResult map[string]interface{}

// Value implements driver.Valuer interface for JobResult
func (r JobResult) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return jsonText(r)
}

// Scan implements sql.Scanner interface for JobResult
func (r *JobResult) Scan(value interface{}) error {
	*r = make(JobResult)
	return scanJSON(value, r)
}

// jsonText encodes as text so sqlite json_extract can query the column
func jsonText(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// scanJSON decodes a JSON column that drivers hand back as bytes or text
func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}

// IsRetryable returns true if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// CanProcess returns true if the job is ready to be processed
func (j *Job) CanProcess() bool {
	return j.Status == JobStatusPending
}

// IsTerminal returns true if the job is in a terminal state
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted ||
		j.Status == JobStatusCancelled ||
		j.Status == JobStatusPermanentlyFailed ||
		(j.Status == JobStatusFailed && !j.IsRetryable())
}

// GetPayloadString safely retrieves a string value from the payload
func (j *Job) GetPayloadString(key string) (string, bool) {
	if j.Payload == nil {
		return "", false
	}
	str, ok := j.Payload[key].(string)
	return str, ok
}

// SetResult sets a result value
func (j *Job) SetResult(key string, value interface{}) {
	if j.Result == nil {
		j.Result = make(JobResult)
	}
	j.Result[key] = value
}

// SetErrorDetails sets error classification information
func (j *Job) SetErrorDetails(errorType JobErrorType, errorCode, errorMsg, errorDetails string) {
	j.ErrorType = string(errorType)
	j.ErrorCode = errorCode
	j.Error = errorMsg
	j.ErrorDetails = errorDetails
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}
