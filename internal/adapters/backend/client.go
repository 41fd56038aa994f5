// Package backend implements the HTTP client for the downstream
// processing service that receives completed intake submissions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/pkg/logger"
	"github.com/vocalis/intake/pkg/metrics"
)

const (
	submitPath           = "/submit-client"
	defaultClientTimeout = 60 * time.Second
	maxRelayedBodyBytes  = 1 << 20
	contentTypeJSON      = "application/json"
)

// Result carries the downstream response so callers can relay it verbatim.
type Result struct {
	Status int
	Body   []byte
}

// OK reports whether the downstream accepted the submission.
func (r Result) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Client posts submissions to the processing backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultClientTimeout},
		logger:  logger.Get().Named("backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts the submission as JSON and returns the downstream status
// and body. A connection-level failure yields ErrUnreachable; any HTTP
// response, including errors, is returned as a Result for relaying.
func (c *Client) Submit(ctx context.Context, sub model.Submission) (Result, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	c.logger.Info(ctx, "relaying submission",
		logger.String("url", c.baseURL+submitPath),
		logger.String("email", sub.Email),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordSubmissionError()
		metrics.RecordErrorByComponent("backend", "unreachable")
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayedBodyBytes))
	if err != nil {
		metrics.RecordSubmissionError()
		metrics.RecordErrorByComponent("backend", "read_body")
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	result := Result{Status: resp.StatusCode, Body: body}
	if result.OK() {
		metrics.RecordSubmissionRelayed()
	} else {
		metrics.RecordSubmissionError()
		c.logger.Warn(ctx, "backend rejected submission",
			logger.Int("status", resp.StatusCode),
		)
	}
	return result, nil
}
