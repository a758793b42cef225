package service

import (
	"codecourse/internal/app/executor"
	"codecourse/internal/domain/model"
	"context"

	"github.com/rs/zerolog"
)

// Dispatcher gets a run executed somewhere and returns its result.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID *int64, req model.RunRequest) (*model.RunResult, error)
}

// InlineDispatcher executes in the calling goroutine.
type InlineDispatcher struct {
	exec executor.Executor
}

func NewInlineDispatcher(exec executor.Executor) *InlineDispatcher {
	return &InlineDispatcher{exec: exec}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, _ *int64, req model.RunRequest) (*model.RunResult, error) {
	return d.exec.Execute(ctx, req)
}

type RunService struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func NewRunService(dispatcher Dispatcher, logger zerolog.Logger) *RunService {
	return &RunService{
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "RunService").Logger(),
	}
}

// Run executes code for a learner. userID is nil for anonymous runs.
func (s *RunService) Run(ctx context.Context, userID *int64, req model.RunRequest) (*model.RunResult, error) {
	req.Language = model.LanguageOrDefault(req.Language)

	result, err := s.dispatcher.Dispatch(ctx, userID, req)
	if err != nil {
		s.logger.Error().Err(err).Str("language", req.Language).Msg("Run failed")
		return nil, err
	}

	event := s.logger.Info().Str("language", req.Language).Int("exit_code", result.ExitCode)
	if userID != nil {
		event = event.Int64("user_id", *userID)
	}
	event.Msg("Run finished")
	return result, nil
}
