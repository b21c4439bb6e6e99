// Package taifex provides a client for Taiwan Futures Exchange CSV reports
package taifex

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const (
	DefaultBaseURL   = "https://www.taifex.com.tw"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 1 // requests per second
)

// Client implements the TAIFEXClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new TAIFEX client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream HTTP error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TAIFEX API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// csvRow is one report row keyed by its header name
type csvRow map[string]string

// Get returns the named cell parsed as a number, nil for empty or
// placeholder cells.
func (r csvRow) Get(header string) *float64 {
	return common.ParseNumber(r[header])
}

// GetValue is Get with nil collapsed to zero.
func (r csvRow) GetValue(header string) float64 {
	return common.Deref(r.Get(header))
}

// postCSV performs a rate-limited form POST and maps the CSV response
// by header name. An empty or headerless body means the report is not
// published for the date and returns (nil, nil). Rows with a cell
// count different from the header are dropped.
func (c *Client) postCSV(ctx context.Context, path string, form url.Values) ([]csvRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug().Str("url", reqURL).Msg("TAIFEX report request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseCSV(string(body))
}

// parseCSV maps a CSV document to rows keyed by header name. The first
// non-empty record is the header; a UTF-8 BOM on its first cell is
// stripped.
func parseCSV(body string) ([]csvRow, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(trimmed))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedField, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	for i, header := range headers {
		headers[i] = strings.TrimSpace(header)
	}

	rows := make([]csvRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(headers) {
			continue
		}
		row := make(csvRow, len(headers))
		for i, header := range headers {
			row[header] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// requireHeaders verifies the mapped rows carry every named column
func requireHeaders(rows []csvRow, headers ...string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, header := range headers {
		if _, ok := rows[0][header]; !ok {
			return fmt.Errorf("%w: missing column %q", models.ErrMalformedField, header)
		}
	}
	return nil
}

// Ensure Client implements TAIFEXClient
var _ interfaces.TAIFEXClient = (*Client)(nil)
