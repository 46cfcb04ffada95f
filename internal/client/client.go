package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/validation"
)

const leadsPath = "/api/leads"

// RequestError reports a response whose status is outside the 2xx range.
type RequestError struct {
	Status int
}

func (e *RequestError) Error() string {
	return "HTTP error! status: " + strconv.Itoa(e.Status)
}

// TransportError wraps a failure to reach the backend.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the leads REST collection. It performs exactly one request per call.
type Client struct {
	http       *http.Client
	root       string
	logger     logrus.FieldLogger
	requestIDs bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs attaches a fresh X-Request-ID header to every request.
func WithRequestIDs(enabled bool) Option {
	return func(c *Client) {
		c.requestIDs = enabled
	}
}

// New builds a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL must not be empty")
	}
	c := &Client{
		http:   &http.Client{},
		root:   strings.TrimRight(baseURL, "/") + leadsPath,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListLeads fetches the leads matching filters. Absent filter fields are not sent.
func (c *Client) ListLeads(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error) {
	target := c.root
	if query := filters.Values().Encode(); query != "" {
		target += "?" + query
	}
	var leads []entity.Lead
	if err := c.do(ctx, http.MethodGet, target, nil, &leads); err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

// GetLead fetches a single lead.
func (c *Client) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodGet, c.leadURL(id), nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// CreateLead validates input and submits it. Invalid input fails with *validation.Error
// before any request is sent.
func (c *Client) CreateLead(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error) {
	if err := validation.Default().Submission(input); err != nil {
		return nil, err
	}
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPost, c.root, input, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateLead applies a partial update and returns the stored lead.
func (c *Client) UpdateLead(ctx context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPut, c.leadURL(id), input, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// DeleteLead removes a lead. An empty success body is not an error.
func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.leadURL(id), nil, nil)
}

// EnrichLead triggers backend enrichment and returns the updated lead.
func (c *Client) EnrichLead(ctx context.Context, id int64) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPost, c.leadURL(id)+"/enrich", nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) leadURL(id int64) string {
	return c.root + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, target string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	log := c.logger.WithFields(logrus.Fields{"method": method, "url": target})
	if c.requestIDs {
		requestID := uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)
		log = log.WithField("request_id", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	log.WithField("status", resp.StatusCode).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &RequestError{Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	// only delete tolerates an empty body, and it passes no out
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
