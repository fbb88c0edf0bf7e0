package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"solverd/pkg/types"
)

// RemoteResult is the tagged outcome of one HTTP round trip to the solve
// service. Any HTTP response, 2xx or not, lands here verbatim; only
// network-level failures become errors. Non-2xx bodies carry diagnostics
// the caller needs, so they are not turned into exceptions at this layer.
type RemoteResult struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the service answered with a 2xx status.
func (r *RemoteResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IndentedBody pretty-prints the body when it is JSON, and returns it raw
// otherwise.
func (r *RemoteResult) IndentedBody() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Body, "", "  "); err != nil {
		return string(r.Body)
	}
	return buf.String()
}

// RemoteAdapter posts solve requests to the remote solving service.
// It performs exactly one attempt per call and never retries.
type RemoteAdapter struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewRemote builds an adapter for the given service base URL. A nil client
// falls back to http.DefaultClient; transport timeouts are whatever the
// client carries, bounded compute time comes from the request's time_limit.
func NewRemote(url string, client *http.Client, log zerolog.Logger) *RemoteAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAdapter{url: url, client: client, log: log}
}

// Solve sends one SolveRequest and returns the raw response. The request's
// file_name is meaningful inside the remote mount, not on this machine, so
// no local existence check is performed.
func (a *RemoteAdapter) Solve(ctx context.Context, req types.SolveRequest) (*RemoteResult, error) {
	if a.url == "" {
		return nil, ErrConfiguration("server_url is not configured")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(a.url, "/") + "/solve_mps"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	a.log.Debug().Str("url", endpoint).Str("file", req.FileName).
		Float64("time_limit", req.TimeLimit).Int("batch_size", req.BatchSize).
		Msg("posting solve request")
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, transportError{url: endpoint, cause: err}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError{url: endpoint, cause: err}
	}
	a.log.Debug().Int("status", resp.StatusCode).Int("body_bytes", len(respBody)).Msg("solve response")
	return &RemoteResult{StatusCode: resp.StatusCode, Body: respBody}, nil
}
