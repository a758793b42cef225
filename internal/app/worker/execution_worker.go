package worker

import (
	"codecourse/internal/app/executor"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var releaseLockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type Options struct {
	QueueName string
	LockKey   string
	LockTTL   time.Duration
}

// ExecutionWorker drains the run queue one job at a time. A Redis lock keeps
// concurrent workers from running sandboxes in parallel.
type ExecutionWorker struct {
	rdb     *redis.Client
	jobRepo repository.ExecutionJobRepository
	exec    executor.Executor
	opts    Options
	logger  zerolog.Logger
}

func NewExecutionWorker(rdb *redis.Client, jobRepo repository.ExecutionJobRepository, exec executor.Executor, opts Options, logger zerolog.Logger) *ExecutionWorker {
	return &ExecutionWorker{
		rdb:     rdb,
		jobRepo: jobRepo,
		exec:    exec,
		opts:    opts,
		logger:  logger.With().Str("service", "ExecutionWorker").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (w *ExecutionWorker) Start(ctx context.Context) error {
	w.logger.Info().Str("queue", w.opts.QueueName).Msg("Execution worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Execution worker stopping")
			return nil
		default:
		}

		// A finite block lets the loop notice cancellation.
		vals, err := w.rdb.BRPop(ctx, 5*time.Second, w.opts.QueueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Error().Err(err).Msg("Failed to BRPop from queue")
			sleep(ctx, 5*time.Second)
			continue
		}

		// BRPop returns [queue, value].
		if len(vals) < 2 || vals[1] == "" {
			w.logger.Warn().Msg("BRPop returned empty job ID")
			continue
		}
		w.processJobWithLock(ctx, vals[1])
	}
}

func (w *ExecutionWorker) processJobWithLock(ctx context.Context, jobID string) {
	lockValue := uuid.NewString()
	log := w.logger.With().Str("job_id", jobID).Logger()

	ok, err := w.rdb.SetNX(ctx, w.opts.LockKey, lockValue, w.opts.LockTTL).Result()
	if err != nil {
		log.Error().Err(err).Msg("Failed to attempt lock acquisition")
		w.requeueJob(ctx, jobID)
		return
	}
	if !ok {
		log.Debug().Msg("Execution lock busy, re-queueing")
		w.requeueJob(ctx, jobID)
		sleep(ctx, 200*time.Millisecond)
		return
	}

	defer func() {
		// The job context may already be cancelled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		deleted, err := releaseLockScript.Run(releaseCtx, w.rdb, []string{w.opts.LockKey}, lockValue).Int64()
		if err != nil {
			log.Error().Err(err).Msg("Failed to release execution lock")
		} else if deleted != 1 {
			log.Warn().Msg("Execution lock expired before release")
		}
	}()

	w.handleJob(ctx, jobID)
}

func (w *ExecutionWorker) requeueJob(ctx context.Context, jobID string) {
	if err := w.rdb.RPush(ctx, w.opts.QueueName, jobID).Err(); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to re-queue job")
	}
}

func (w *ExecutionWorker) handleJob(ctx context.Context, jobID string) {
	log := w.logger.With().Str("job_id", jobID).Logger()

	job, err := w.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		// Expired or never stored; nobody is waiting for it.
		log.Error().Err(err).Msg("Failed to fetch job")
		return
	}

	if err := w.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusProcessing, nil); err != nil {
		log.Error().Err(err).Msg("Failed to mark job as processing")
	}

	result, err := w.exec.Execute(ctx, model.RunRequest{Code: job.Code, Language: job.Language})
	if err != nil {
		errMsg := err.Error()
		log.Error().Err(err).Msg("Execution failed")
		if uErr := w.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusFailed, &errMsg); uErr != nil {
			log.Error().Err(uErr).Msg("Failed to mark job as failed")
		}
		// The waiting request turns a missing result into a timeout; report
		// the failure through the result channel instead.
		result = &model.RunResult{ExitCode: 1, Stderr: errMsg}
	} else if uErr := w.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusCompleted, nil); uErr != nil {
		log.Error().Err(uErr).Msg("Failed to mark job as completed")
	}

	if err := w.jobRepo.PublishResult(ctx, job.ID, *result); err != nil {
		log.Error().Err(err).Msg("Failed to publish result")
		return
	}
	log.Debug().Int("exit_code", result.ExitCode).Msg("Job finished")
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
