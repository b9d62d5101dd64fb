package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "http://localhost:3001"
	DefaultTimeout   = 5 * time.Second
	totalCountHeader = "X-Total-Count"
)

var (
	ErrUnavailable = errors.New("jobs api is unreachable")
	ErrNotFound    = errors.New("resource not found")
)

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

type ListResponse struct {
	Jobs  []models.Job
	Total int
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL     string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) GetJobs(ctx context.Context, parameters ListParameters) (ListResponse, error) {

	if err := parameters.Validate(); err != nil {
		return ListResponse{}, fmt.Errorf("invalid parameters: %w", err)
	}

	resp, err := c.sendRequest(ctx, http.MethodGet, c.baseURL+"/jobs?"+parameters.ToUrlParams().Encode(), nil)
	if err != nil {
		return ListResponse{}, err
	}

	var jobs []models.Job
	if err := json.NewDecoder(bytes.NewReader(resp.body)).Decode(&jobs); err != nil {
		return ListResponse{}, fmt.Errorf("error decoding JSON response: %v", err)
	}

	total := len(jobs)
	if header := resp.header.Get(totalCountHeader); header != "" {
		if total, err = strconv.Atoi(header); err != nil {
			return ListResponse{}, fmt.Errorf("invalid %s header %q: %v", totalCountHeader, header, err)
		}
	}

	return ListResponse{Jobs: jobs, Total: total}, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (models.Job, error) {

	resp, err := c.sendRequest(ctx, http.MethodGet, c.jobURL(id), nil)
	if err != nil {
		return models.Job{}, err
	}

	return decodeJob(resp.body)
}

func (c *Client) CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error) {

	resp, err := c.sendRequest(ctx, http.MethodPost, c.baseURL+"/jobs", draft)
	if err != nil {
		return models.Job{}, err
	}

	return decodeJob(resp.body)
}

func (c *Client) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {

	resp, err := c.sendRequest(ctx, http.MethodPatch, c.jobURL(id), patch)
	if err != nil {
		return models.Job{}, err
	}

	return decodeJob(resp.body)
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.sendRequest(ctx, http.MethodDelete, c.jobURL(id), nil)
	return err
}

func (c *Client) jobURL(id string) string {
	return c.baseURL + "/jobs/" + url.PathEscape(id)
}

type response struct {
	body   []byte
	header http.Header
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, payload any) (*response, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, deadlineError(ctx, err)
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	return c.handleResponse(ctx, resp)
}

func (c *Client) handleResponse(ctx context.Context, resp *http.Response) (*response, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &response{body: body, header: resp.Header}, nil
}

// classifyTransportError separates "could not reach the server" from every other failure of Do.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("error sending request: %v", err)
	}
}

// deadlineError reports a rate limiter wait that can't finish before the deadline as unavailability.
func deadlineError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func decodeJob(body []byte) (models.Job, error) {
	var job models.Job
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&job); err != nil {
		return models.Job{}, fmt.Errorf("error decoding JSON response: %v", err)
	}
	return job, nil
}
