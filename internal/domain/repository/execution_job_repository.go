package repository

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExecutionJobRepository keeps queued runs and hands results back to the
// request that is waiting for them.
type ExecutionJobRepository interface {
	CreateJob(ctx context.Context, job *model.ExecutionJob) error
	GetJobByID(ctx context.Context, id string) (*model.ExecutionJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error
	PublishResult(ctx context.Context, jobID string, result model.RunResult) error
	AwaitResult(ctx context.Context, jobID string, timeout time.Duration) (*model.RunResult, error)
}

type redisExecutionJobRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisExecutionJobRepository(rdb *redis.Client, ttl time.Duration) ExecutionJobRepository {
	return &redisExecutionJobRepository{rdb: rdb, ttl: ttl}
}

func jobKey(id string) string    { return "execution_job:" + id }
func resultKey(id string) string { return "execution_result:" + id }

func (r *redisExecutionJobRepository) CreateJob(ctx context.Context, job *model.ExecutionJob) error {
	now := time.Now()
	job.EnqueuedAt = now
	job.UpdatedAt = now
	return r.save(ctx, job)
}

func (r *redisExecutionJobRepository) save(ctx context.Context, job *model.ExecutionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redisExecutionJobRepository.save marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, jobKey(job.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redisExecutionJobRepository.save: %w", err)
	}
	return nil
}

func (r *redisExecutionJobRepository) GetJobByID(ctx context.Context, id string) (*model.ExecutionJob, error) {
	data, err := r.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisExecutionJobRepository.GetJobByID: %w", err)
	}
	var job model.ExecutionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("redisExecutionJobRepository.GetJobByID unmarshal: %w", err)
	}
	return &job, nil
}

func (r *redisExecutionJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error {
	job, err := r.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = status
	job.LastError = lastError
	job.UpdatedAt = time.Now()
	return r.save(ctx, job)
}

// PublishResult pushes the result onto a per-job list the waiting request
// blocks on. The list expires so abandoned results do not pile up.
func (r *redisExecutionJobRepository) PublishResult(ctx context.Context, jobID string, result model.RunResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redisExecutionJobRepository.PublishResult marshal: %w", err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, resultKey(jobID), data)
	pipe.Expire(ctx, resultKey(jobID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisExecutionJobRepository.PublishResult: %w", err)
	}
	return nil
}

func (r *redisExecutionJobRepository) AwaitResult(ctx context.Context, jobID string, timeout time.Duration) (*model.RunResult, error) {
	vals, err := r.rdb.BRPop(ctx, timeout, resultKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrExecutionTimeout
		}
		return nil, fmt.Errorf("redisExecutionJobRepository.AwaitResult: %w", err)
	}
	// BRPop returns [key, value].
	if len(vals) < 2 {
		return nil, fmt.Errorf("redisExecutionJobRepository.AwaitResult: empty reply")
	}
	var result model.RunResult
	if err := json.Unmarshal([]byte(vals[1]), &result); err != nil {
		return nil, fmt.Errorf("redisExecutionJobRepository.AwaitResult unmarshal: %w", err)
	}
	return &result, nil
}
