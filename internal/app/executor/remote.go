package executor

import (
	"bytes"
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// RemoteExecutor forwards runs to another service that exposes POST /run.
type RemoteExecutor struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewRemoteExecutor(baseURL string, logger zerolog.Logger) *RemoteExecutor {
	return &RemoteExecutor{
		baseURL: strings.TrimRight(baseURL, "/"),
		// The remote side enforces its own run limit; the caller's context
		// bounds the wait.
		client: &http.Client{},
		logger: logger.With().Str("service", "RemoteExecutor").Logger(),
	}
}

func (e *RemoteExecutor) Execute(ctx context.Context, req model.RunRequest) (*model.RunResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling run request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/run", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.logger.Error().Err(err).Msg("Remote executor unreachable")
		return nil, common.WithDetail(common.ErrServiceUnavailable, "Execution backend unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading run response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		e.logger.Error().Int("status", resp.StatusCode).Str("body", string(data)).Msg("Remote executor failed")
		return nil, common.WithDetail(common.ErrServiceUnavailable, fmt.Sprintf("Execution backend returned %d", resp.StatusCode))
	}

	var result model.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding run response: %w", err)
	}
	return &result, nil
}
