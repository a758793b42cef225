package service

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ExecutionJobService hands runs to the execution worker through Redis and
// waits for the worker to publish the result.
type ExecutionJobService struct {
	jobRepo   repository.ExecutionJobRepository
	rdb       *redis.Client
	queueName string
	wait      time.Duration
	logger    zerolog.Logger
}

func NewExecutionJobService(jobRepo repository.ExecutionJobRepository, rdb *redis.Client, queueName string, wait time.Duration, logger zerolog.Logger) *ExecutionJobService {
	return &ExecutionJobService{
		jobRepo:   jobRepo,
		rdb:       rdb,
		queueName: queueName,
		wait:      wait,
		logger:    logger.With().Str("service", "ExecutionJobService").Logger(),
	}
}

// EnqueueRunJob stores the job and pushes its ID onto the queue.
func (s *ExecutionJobService) EnqueueRunJob(ctx context.Context, userID *int64, req model.RunRequest) (*model.ExecutionJob, error) {
	job := &model.ExecutionJob{
		ID:       uuid.NewString(),
		UserID:   userID,
		Language: req.Language,
		Code:     req.Code,
		Status:   model.JobStatusQueued,
	}

	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, common.Errorf("failed to create execution job: %w", err)
	}

	// A job record without a queue entry expires with its TTL.
	if err := s.rdb.LPush(ctx, s.queueName, job.ID).Err(); err != nil {
		return nil, common.Errorf("failed to push job ID to Redis queue: %w", err)
	}

	s.logger.Debug().Str("job_id", job.ID).Str("language", job.Language).Msg("Run job enqueued")
	return job, nil
}

// Dispatch enqueues the run and blocks until the worker reports back or the
// wait limit passes.
func (s *ExecutionJobService) Dispatch(ctx context.Context, userID *int64, req model.RunRequest) (*model.RunResult, error) {
	job, err := s.EnqueueRunJob(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	result, err := s.jobRepo.AwaitResult(ctx, job.ID, s.wait)
	if err != nil {
		s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("No result for run job")
		return nil, fmt.Errorf("waiting for job %s: %w", job.ID, err)
	}
	return result, nil
}
