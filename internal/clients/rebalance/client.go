// Package rebalance provides a client for the portfolio rebalance server API
package rebalance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:5000"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the RebalanceClient interface
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

// NewClient creates a new rebalance server client
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rebalance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Rebalance API request")

	return c.do(req, path, result)
}

// post performs a rate-limited POST request with a JSON body
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Rebalance API request")

	return c.do(req, path, result)
}

func (c *Client) do(req *http.Request, path string, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postStatus posts a write request and checks the success flag in the response.
func (c *Client) postStatus(ctx context.Context, path string, body interface{}) error {
	var status models.StatusResponse
	if err := c.post(ctx, path, body, &status); err != nil {
		return err
	}
	if !status.Success {
		msg := status.Error
		if msg == "" {
			msg = "request rejected"
		}
		return &APIError{StatusCode: http.StatusOK, Message: msg, Endpoint: path}
	}
	return nil
}

// GetPortfolio fetches the baseline portfolio snapshot.
func (c *Client) GetPortfolio(ctx context.Context) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := c.get(ctx, "/api/portfolio", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetPortfolioWithDeposits fetches the deposit-adjusted snapshot. The
// simulated deposits are folded into cash balances server-side before the
// rebalancing analysis runs.
func (c *Client) GetPortfolioWithDeposits(ctx context.Context, deposits map[string]float64) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	req := models.DepositsRequest{Deposits: deposits}
	if err := c.post(ctx, "/api/portfolio-with-deposits", req, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetPriceSources returns the price source label and URL per ticker.
func (c *Client) GetPriceSources(ctx context.Context) (map[string]models.PriceSource, error) {
	sources := make(map[string]models.PriceSource)
	if err := c.get(ctx, "/api/price-sources", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// RefreshPrices triggers a live price refresh and returns the updated count.
func (c *Client) RefreshPrices(ctx context.Context) (int, error) {
	var resp models.RefreshPricesResponse
	if err := c.post(ctx, "/api/refresh-prices", struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// UpdateHolding updates fields of one holding.
func (c *Client) UpdateHolding(ctx context.Context, req models.UpdateHoldingRequest) error {
	return c.postStatus(ctx, "/api/holdings/update", req)
}

// UpdateTickerValue sets a ticker's total value; the server redistributes it
// proportionally across that ticker's holdings.
func (c *Client) UpdateTickerValue(ctx context.Context, req models.UpdateTickerValueRequest) error {
	return c.postStatus(ctx, "/api/holdings/update-ticker-value", req)
}

// UpdateTickerPrice sets the unit price for all holdings of a ticker.
// Shares the update-ticker-value endpoint; the body key selects the variant.
func (c *Client) UpdateTickerPrice(ctx context.Context, req models.UpdateTickerPriceRequest) error {
	return c.postStatus(ctx, "/api/holdings/update-ticker-value", req)
}

// UpdateTickerTarget sets the target weight for all holdings of a ticker.
func (c *Client) UpdateTickerTarget(ctx context.Context, req models.UpdateTickerTargetRequest) error {
	return c.postStatus(ctx, "/api/holdings/update-ticker-target", req)
}

// UpdateCash sets an account's real cash balance.
func (c *Client) UpdateCash(ctx context.Context, req models.UpdateCashRequest) error {
	return c.postStatus(ctx, "/api/cash/update", req)
}

// UpdateCashTarget sets the portfolio-wide cash target percentage.
func (c *Client) UpdateCashTarget(ctx context.Context, req models.UpdateCashTargetRequest) error {
	return c.postStatus(ctx, "/api/cash-target/update", req)
}

// DeleteHolding removes a holding; the server folds its value into account cash.
func (c *Client) DeleteHolding(ctx context.Context, req models.DeleteHoldingRequest) error {
	return c.postStatus(ctx, "/api/holdings/delete", req)
}

// AddHolding creates a new holding.
func (c *Client) AddHolding(ctx context.Context, req models.AddHoldingRequest) error {
	return c.postStatus(ctx, "/api/holdings/add", req)
}

// ImportCSV uploads a CSV file and re-imports all portfolio data.
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader) (*models.ImportCSVResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	path := "/api/import-csv"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Rebalance API request")

	var resp models.ImportCSVResponse
	if err := c.do(req, path, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error, Endpoint: path}
	}
	return &resp, nil
}
