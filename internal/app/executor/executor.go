package executor

import (
	"codecourse/internal/domain/model"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvDocker = "docker"
	EnvLocal  = "local"
	EnvRemote = "remote"
)

// Executor runs one program and reports how it ended.
type Executor interface {
	Execute(ctx context.Context, req model.RunRequest) (*model.RunResult, error)
}

type Options struct {
	Env       string
	Image     string
	Timeout   time.Duration
	RemoteURL string
}

// New picks the back-end named by opts.Env.
func New(opts Options, logger zerolog.Logger) (Executor, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	switch opts.Env {
	case EnvDocker, "":
		return NewSandboxExecutor(EnvDocker, opts.Image, opts.Timeout, logger), nil
	case EnvLocal, "modal":
		return NewSandboxExecutor(EnvLocal, "", opts.Timeout, logger), nil
	case EnvRemote:
		if opts.RemoteURL == "" {
			return nil, fmt.Errorf("remote executor selected but no URL configured")
		}
		return NewRemoteExecutor(opts.RemoteURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown execution environment %q", opts.Env)
	}
}
