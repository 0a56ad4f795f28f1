package report

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// ErrJobNotQueued means the queued->running transition matched no row, so
// another delivery already claimed the job (or it was never queued).
var ErrJobNotQueued = errors.New("report: job is not queued")

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotQueued
	}
	return nil
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string, reportJSON string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      JobSucceeded,
			"report_json": reportJSON,
			"error":       nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      JobFailed,
			"error":       errMsg,
			"report_json": nil,
		}).Error
}

func (r *Repo) GetJobByIdempotencyKey(ctx context.Context, key string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJobOrGetExisting tries to create a job; if the idempotency key is
// already taken it returns the existing job instead.
func (r *Repo) CreateJobOrGetExisting(ctx context.Context, job *Job) (*Job, bool, error) {
	if job.IdempotencyKey == nil || *job.IdempotencyKey == "" {
		job.IdempotencyKey = nil
		if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
			return nil, false, err
		}
		return job, true, nil
	}

	err := r.db.WithContext(ctx).Create(job).Error
	if err == nil {
		return job, true, nil
	}

	existing, getErr := r.GetJobByIdempotencyKey(ctx, *job.IdempotencyKey)
	if getErr == nil {
		return existing, false, nil
	}
	if errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return nil, false, getErr
}
