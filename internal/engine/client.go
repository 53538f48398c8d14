// Package engine is the REST client for the external image-generation
// engine. It covers the pull half of the update contract (snapshots of
// active jobs, results and system status) plus the command endpoints;
// the push half lives in internal/transport.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studio/internal/domain"
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("engine: base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: client, baseURL: base}, nil
}

// BaseURL returns the configured engine address.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Submit enqueues a generation request and returns the engine-assigned job id
// together with the initial status and progress.
func (c *Client) Submit(ctx context.Context, params domain.GenerationParams) (SubmitResponse, error) {
	var out SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", params, &out); err != nil {
		return SubmitResponse{}, err
	}
	if strings.TrimSpace(out.JobID) == "" {
		return SubmitResponse{}, errors.New("engine: submit response missing job id")
	}
	return out, nil
}

// Cancel asks the engine to abandon the job with the given id.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return errors.New("engine: job id is required")
	}
	return c.do(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(jobID)+"/cancel", nil, nil)
}

// ActiveJobs fetches the engine's full current queue.
func (c *Client) ActiveJobs(ctx context.Context) ([]JobSnapshot, error) {
	var out struct {
		Jobs []JobSnapshot `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// Results fetches up to limit retained outputs, newest first.
func (c *Client) Results(ctx context.Context, limit int) ([]ResultSnapshot, error) {
	path := "/api/results"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Results []ResultSnapshot `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// DeleteResult removes a retained output from the engine's history.
func (c *Client) DeleteResult(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("engine: result id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/results/"+url.PathEscape(id), nil, nil)
}

// SystemStatus fetches the engine's ambient telemetry snapshot.
func (c *Client) SystemStatus(ctx context.Context) (domain.StatusPatch, error) {
	var out domain.StatusPatch
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return domain.StatusPatch{}, err
	}
	return out, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil {
		return errors.New("engine: client not configured")
	}
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("engine: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var fail errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&fail); decodeErr == nil {
			if fail.Error != "" {
				return fmt.Errorf("engine: %s", fail.Error)
			}
			if fail.Message != "" {
				return fmt.Errorf("engine: %s", fail.Message)
			}
		}
		return fmt.Errorf("engine: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("engine: decode response: %w", err)
	}
	return nil
}
