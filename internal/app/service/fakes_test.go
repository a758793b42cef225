package service

import (
	"codecourse/internal/domain/model"
	"context"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

type fakeExecutor struct {
	result *model.RunResult
	err    error
	got    model.RunRequest
}

func (f *fakeExecutor) Execute(_ context.Context, req model.RunRequest) (*model.RunResult, error) {
	f.got = req
	return f.result, f.err
}
