package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
	"problem-tracker/response"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client 调用 tracker 服务端的三个接口
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch GET /api/problems
func (c *Client) Fetch(ctx context.Context) (*dto.ProblemsResponse, error) {
	var resp dto.ProblemsResponse
	if err := c.do(ctx, http.MethodGet, "/api/problems", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddProblem POST /api/problems/add
func (c *Client) AddProblem(ctx context.Context, p model.Problem) error {
	return c.do(ctx, http.MethodPost, "/api/problems/add", p, nil)
}

// UpdateStatus POST /api/problems/status
func (c *Client) UpdateStatus(ctx context.Context, s model.ProblemStatus) error {
	return c.do(ctx, http.MethodPost, "/api/problems/status", s, nil)
}

// MarkDone POST /api/problems/:id/done
func (c *Client) MarkDone(ctx context.Context, id int64) (*model.ProblemStatus, error) {
	var ack response.Response[*model.ProblemStatus]
	if err := c.do(ctx, http.MethodPost, "/api/problems/"+strconv.FormatInt(id, 10)+"/done", nil, &ack); err != nil {
		return nil, err
	}
	return ack.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure response.Response[any]
		if json.Unmarshal(raw, &failure) == nil && failure.Message != "" {
			return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, failure.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
