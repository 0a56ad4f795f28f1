package report

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one queued report-generation request.
type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	SessionID string `gorm:"size:26;index;not null"`

	IdempotencyKey *string `gorm:"type:varchar(128);index:uniq_report_job_idempo,unique" json:"idempotency_key"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	ReportJSON *string `gorm:"type:text"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "report_jobs" }
