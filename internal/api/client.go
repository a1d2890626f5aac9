package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tutorial-studio/internal/model"

	"github.com/google/uuid"
)

// Client talks to the tutorial service's HTTP gateway. It carries no retry
// policy; the poll loop owns retries for status reads and every one-shot
// action surfaces its failure to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response whose body carried the server's
// {error: string} payload. The message is surfaced verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorPayload struct {
	Error string `json:"error"`
}

type generatePlanRequest struct {
	Instruction string `json:"instruction"`
}

type generatePlanResponse struct {
	JobID string `json:"job_id"`
}

type tutorialsResponse struct {
	Tutorials []model.Tutorial `json:"tutorials"`
}

func (c *Client) GeneratePlan(instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", fmt.Errorf("instruction is required")
	}
	var out generatePlanResponse
	if err := c.do(http.MethodPost, "/api/generate-plan", generatePlanRequest{Instruction: instruction}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.JobID) == "" {
		return "", fmt.Errorf("server returned no job id")
	}
	return out.JobID, nil
}

func (c *Client) JobStatus(jobID string) (model.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return model.Job{}, fmt.Errorf("job id is required")
	}
	var job model.Job
	if err := c.do(http.MethodGet, "/api/status/"+url.PathEscape(jobID), nil, &job); err != nil {
		return model.Job{}, err
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

func (c *Client) SaveTaskPlan(jobID string, plan model.TaskPlan) (model.TaskPlan, error) {
	if strings.TrimSpace(jobID) == "" {
		return model.TaskPlan{}, fmt.Errorf("job id is required")
	}
	var echoed model.TaskPlan
	if err := c.do(http.MethodPut, "/api/task-plan/"+url.PathEscape(jobID), plan, &echoed); err != nil {
		return model.TaskPlan{}, err
	}
	return echoed, nil
}

func (c *Client) Execute(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return fmt.Errorf("job id is required")
	}
	return c.do(http.MethodPost, "/api/execute/"+url.PathEscape(jobID), nil, nil)
}

func (c *Client) Regenerate(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return fmt.Errorf("job id is required")
	}
	return c.do(http.MethodPost, "/api/regenerate/"+url.PathEscape(jobID), nil, nil)
}

func (c *Client) ListTutorials() ([]model.Tutorial, error) {
	var out tutorialsResponse
	if err := c.do(http.MethodGet, "/api/tutorials", nil, &out); err != nil {
		return nil, err
	}
	if out.Tutorials == nil {
		out.Tutorials = []model.Tutorial{}
	}
	return out.Tutorials, nil
}

func (c *Client) DeleteTutorial(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("tutorial id is required")
	}
	return c.do(http.MethodDelete, "/api/tutorials/"+url.PathEscape(id), nil, nil)
}

// MediaURL resolves a server-relative video_url/download_url path against the
// configured base. Absolute URLs pass through untouched.
func (c *Client) MediaURL(rel string) string {
	v := strings.TrimSpace(rel)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	if !strings.HasPrefix(v, "/") {
		v = "/" + v
	}
	return c.baseURL + v
}

// FetchMedia streams a media path; the caller owns closing the body.
func (c *Client) FetchMedia(rel string) (io.ReadCloser, error) {
	target := c.MediaURL(rel)
	if target == "" {
		return nil, fmt.Errorf("media path is required")
	}
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

func (c *Client) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("server returned HTTP %d", resp.StatusCode),
	}
}
