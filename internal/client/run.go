package client

import (
	"codecourse/internal/domain/model"
	"context"
	"net/http"
)

func (c *Client) Run(ctx context.Context, req model.RunRequest) (*model.RunResult, error) {
	var result model.RunResult
	if err := c.doJSON(ctx, http.MethodPost, "/run", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type GeneratedExercise struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartingCode string `json:"starting_code"`
	TestCases    string `json:"test_cases"`
}

func (c *Client) GenerateExercise(ctx context.Context, prompt, language string) (*GeneratedExercise, error) {
	body := map[string]string{"prompt": prompt, "language": language}
	var out GeneratedExercise
	if err := c.doJSON(ctx, http.MethodPost, "/ai/generate/exercise", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Discuss(ctx context.Context, message, codeContext string) (string, error) {
	body := map[string]string{"message": message, "context": codeContext}
	var out struct {
		Response string `json:"response"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ai/discuss", body, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}
