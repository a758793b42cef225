package playground

import (
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned while an earlier run is still outstanding.
var ErrRunInProgress = errors.New("a run is already in progress")

type Runner interface {
	Run(ctx context.Context, req model.RunRequest) (*model.RunResult, error)
}

// Celebrator is told once per passing run.
type Celebrator interface {
	Celebrate()
}

type CelebratorFunc func()

func (f CelebratorFunc) Celebrate() { f() }

// Orchestrator runs one exercise attempt at a time.
type Orchestrator struct {
	runner    Runner
	celebrate Celebrator
	running   atomic.Bool
	logger    zerolog.Logger
}

func New(runner Runner, celebrate Celebrator, logger zerolog.Logger) *Orchestrator {
	if celebrate == nil {
		celebrate = CelebratorFunc(func() {})
	}
	return &Orchestrator{
		runner:    runner,
		celebrate: celebrate,
		logger:    logger.With().Str("component", "playground").Logger(),
	}
}

// Running reports whether a run is outstanding.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Status is the text to show in the output pane while idle or running.
func (o *Orchestrator) Status(last string) string {
	if o.Running() {
		return RunningText
	}
	return last
}

// Run sends buffer plus the exercise's test code to the run endpoint and
// classifies the result. onStart, if set, is called once the run is
// accepted.
func (o *Orchestrator) Run(ctx context.Context, buffer string, exercise model.Exercise, onStart func()) (Outcome, error) {
	if !o.running.CompareAndSwap(false, true) {
		return Outcome{}, ErrRunInProgress
	}
	defer o.running.Store(false)

	if onStart != nil {
		onStart()
	}

	req := model.RunRequest{
		Code:     ComposeSource(buffer, exercise.TestCode),
		Language: model.LanguageOrDefault(exercise.Language),
	}
	result, err := o.runner.Run(ctx, req)
	if err != nil {
		o.logger.Debug().Err(err).Int64("exercise_id", exercise.ID).Msg("Run request failed")
		return ClassifyError(err), nil
	}

	outcome := Classify(result.ExitCode, result.Stdout, result.Stderr)
	if outcome.Celebrate {
		o.celebrate.Celebrate()
	}
	return outcome, nil
}
