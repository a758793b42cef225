package playground

import (
	"codecourse/internal/client"
	"codecourse/internal/domain/model"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result *model.RunResult
	err    error
	got    model.RunRequest
	block  chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, req model.RunRequest) (*model.RunResult, error) {
	f.got = req
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

func TestComposeSource(t *testing.T) {
	assert.Equal(t, "def f(): pass\n\nassert f() is None", ComposeSource("def f(): pass", "assert f() is None"))
	assert.Equal(t, "\n\n", ComposeSource("", ""))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		exit    int
		stdout  string
		stderr  string
		want    string
		success bool
	}{
		{"pass with output", 0, "ok\n", "", "ok\n", true},
		{"pass without output", 0, "", "", SuccessText, true},
		{"pass ignores stderr", 0, "", "warning", SuccessText, true},
		{"fail with stderr", 1, "", "AssertionError", "Error:\nAssertionError", false},
		{"fail with both", 1, "partial", "boom", "Error:\nboom\nOutput:\npartial", false},
		{"fail with stdout only", 1, "partial", "", "Output:\npartial", false},
		{"fail silent", 3, "", "", "Process exited with code 3", false},
		{"timeout", model.ExitCodeTimeout, "", "Execution timed out", "Error:\nExecution timed out", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Classify(tc.exit, tc.stdout, tc.stderr)
			assert.Equal(t, tc.want, out.Text)
			assert.Equal(t, tc.success, out.Success)
			assert.Equal(t, tc.success, out.Celebrate)
		})
	}
}

func TestClassifyNeverEmpty(t *testing.T) {
	for exit := -1; exit < 5; exit++ {
		for _, stdout := range []string{"", "x"} {
			for _, stderr := range []string{"", "y"} {
				assert.NotEmpty(t, Classify(exit, stdout, stderr).Text, fmt.Sprintf("exit=%d stdout=%q stderr=%q", exit, stdout, stderr))
			}
		}
	}
}

func TestClassifyError(t *testing.T) {
	out := ClassifyError(&client.APIError{StatusCode: 400, Detail: "Language not supported"})
	assert.Equal(t, "Error:\nLanguage not supported", out.Text)
	assert.False(t, out.Success)

	out = ClassifyError(fmt.Errorf("%w: dial tcp", client.ErrConnection))
	assert.Equal(t, ConnectFailedText, out.Text)
	assert.False(t, out.Celebrate)
}

func TestOrchestratorRun(t *testing.T) {
	runner := &fakeRunner{result: &model.RunResult{ExitCode: 0, Stdout: "1 passed"}}
	celebrations := 0
	orch := New(runner, CelebratorFunc(func() { celebrations++ }), zerolog.Nop())

	started := false
	ex := model.Exercise{ID: 7, TestCode: "assert add(1, 2) == 3"}
	out, err := orch.Run(context.Background(), "def add(a, b): return a + b", ex, func() {
		started = true
		assert.Equal(t, RunningText, orch.Status("previous"))
	})
	require.NoError(t, err)

	assert.True(t, started)
	assert.Equal(t, "1 passed", out.Text)
	assert.Equal(t, 1, celebrations)
	assert.Equal(t, "def add(a, b): return a + b\n\nassert add(1, 2) == 3", runner.got.Code)
	assert.Equal(t, model.LanguagePython, runner.got.Language)
	assert.False(t, orch.Running())
	assert.Equal(t, "previous", orch.Status("previous"))
}

func TestOrchestratorFailureDoesNotCelebrate(t *testing.T) {
	runner := &fakeRunner{result: &model.RunResult{ExitCode: 1, Stderr: "AssertionError"}}
	celebrations := 0
	orch := New(runner, CelebratorFunc(func() { celebrations++ }), zerolog.Nop())

	out, err := orch.Run(context.Background(), "", model.Exercise{Language: "rust"}, nil)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Zero(t, celebrations)
	assert.Equal(t, "rust", runner.got.Language)

	runner.result, runner.err = nil, errors.New("connection refused")
	out, err = orch.Run(context.Background(), "", model.Exercise{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ConnectFailedText, out.Text)
	assert.Zero(t, celebrations)
}

func TestOrchestratorRejectsConcurrentRun(t *testing.T) {
	runner := &fakeRunner{result: &model.RunResult{}, block: make(chan struct{})}
	orch := New(runner, nil, zerolog.Nop())

	done := make(chan struct{})
	started := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = orch.Run(context.Background(), "", model.Exercise{}, func() { close(started) })
	}()
	<-started

	_, err := orch.Run(context.Background(), "", model.Exercise{}, nil)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(runner.block)
	<-done
	assert.False(t, orch.Running())
}
