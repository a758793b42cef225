package executor

import (
	"bytes"
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// CommandBuilder turns a language and a working directory into argv.
type CommandBuilder func(lang model.Language, dir string) []string

type SandboxExecutor struct {
	timeout time.Duration
	build   CommandBuilder
	logger  zerolog.Logger
}

// NewSandboxExecutor runs code either in a throwaway container ("docker") or
// as a plain child process inside an already isolated host ("local").
func NewSandboxExecutor(env, image string, timeout time.Duration, logger zerolog.Logger) *SandboxExecutor {
	build := func(lang model.Language, _ string) []string { return lang.RunCommand }
	if env == EnvDocker {
		build = func(lang model.Language, dir string) []string {
			argv := []string{"docker", "run", "--rm", "-v", dir + ":/app", "-w", "/app", image}
			return append(argv, lang.RunCommand...)
		}
	}
	return &SandboxExecutor{
		timeout: timeout,
		build:   build,
		logger:  logger.With().Str("service", "SandboxExecutor").Str("env", env).Logger(),
	}
}

// WithCommandBuilder swaps how argv is produced.
func (e *SandboxExecutor) WithCommandBuilder(build CommandBuilder) *SandboxExecutor {
	e.build = build
	return e
}

func (e *SandboxExecutor) Execute(ctx context.Context, req model.RunRequest) (*model.RunResult, error) {
	lang := model.LookupLanguage(req.Language)

	dir, err := os.MkdirTemp("", "codecourse-run-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, lang.MainFile), []byte(req.Code), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	argv := e.build(lang, dir)
	if len(argv) == 0 {
		return nil, fmt.Errorf("no command for language %q", lang.Slug)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Children that inherit the pipes must not hold Run open past the kill.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Info().Str("language", lang.Slug).Dur("elapsed", elapsed).Msg("Run timed out")
		return &model.RunResult{Stdout: "", Stderr: "Execution timed out", ExitCode: model.ExitCodeTimeout}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to start sandbox: %w", err)
		}
	}

	result := &model.RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	e.logger.Debug().Str("language", lang.Slug).Int("exit_code", result.ExitCode).Dur("elapsed", elapsed).Msg("Run finished")
	return result, nil
}
