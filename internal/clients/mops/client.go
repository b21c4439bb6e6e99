// Package mops provides a client for the Market Observation Post System
package mops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const (
	DefaultBaseURL   = "https://mops.twse.com.tw"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 1 // requests per second
)

// Client implements the MOPSClient interface
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

// NewClient creates a new MOPS client
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
	return fmt.Sprintf("MOPS API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// FetchTpexEquityShares returns issued shares and foreign holdings for
// OTC equities. The report is a Big5-encoded HTML table queried by
// calendar day; the first table row is the header, and rows with an
// empty symbol cell are notes or separators.
func (c *Client) FetchTpexEquityShares(ctx context.Context, date string) ([]*models.Ticker, error) {
	t, err := time.Parse(common.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("years", t.Format("2006"))
	form.Set("months", t.Format("01"))
	form.Set("days", t.Format("02"))
	form.Set("bcode", "")
	form.Set("step", "2")

	endpoint := "/server-java/t13sa150_otc"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug().Str("date", date).Msg("MOPS shareholding request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
			Endpoint:   endpoint,
		}
	}

	decoded := transform.NewReader(resp.Body, traditionalchinese.Big5.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var tickers []*models.Ticker
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		symbol := strings.TrimSpace(cells.Eq(0).Text())
		if symbol == "" {
			return
		}
		tickers = append(tickers, &models.Ticker{
			Date:         date,
			Type:         models.TickerTypeEquity,
			Exchange:     models.ExchangeTPEx,
			Market:       models.MarketOTC,
			Symbol:       symbol,
			IssuedShares: common.ParseNumber(cells.Eq(2).Text()),
			QfiiHoldings: common.ParseNumber(cells.Eq(4).Text()),
		})
	})

	return tickers, nil
}

// Ensure Client implements MOPSClient
var _ interfaces.MOPSClient = (*Client)(nil)
