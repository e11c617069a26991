package goldapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goldleaf/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// GramsPerTroyOunce converts an ounce-denominated gold price to grams.
const GramsPerTroyOunce = 31.1035

// maxBodySize bounds how much of an upstream response we read.
const maxBodySize = 1 << 20

// Client handles communication with the goldapi.io price API.
type Client struct {
	httpClient  *http.Client
	accessToken string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a goldapi.io client. requestsPerHour bounds calls
// against the upstream quota; timeout bounds each request so a slow
// upstream can never stall a catalog request.
func NewClient(accessToken, baseURL string, requestsPerHour int, timeout time.Duration) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 300
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		accessToken: accessToken,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose logging of upstream responses.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// FetchPricePerGram fetches the current XAU/USD quote and returns the
// 24k price in USD per gram. The response's price_gram_24k field is
// preferred; when absent the per-ounce price is converted. A single
// attempt is made; callers own the fallback behavior on failure.
func (c *Client) FetchPricePerGram(ctx context.Context) (float64, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/XAU/USD", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-access-token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "GoldLeaf/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrGoldAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("%w: reading body: %v", domain.ErrGoldAPIFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: status %d", domain.ErrGoldAPIFailure, resp.StatusCode)
	}

	if c.debug {
		log.Debug().Str("body", string(body)).Msg("goldapi response")
	}

	return parsePricePerGram(body)
}

// parsePricePerGram extracts the gram price from a goldapi.io quote:
//
//	{"symbol":"XAU/USD","price":2345.67,"price_gram_24k":75.42}
func parsePricePerGram(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: malformed response body", domain.ErrGoldAPIFailure)
	}

	if gram := gjson.GetBytes(body, "price_gram_24k"); gram.Exists() && gram.Float() > 0 {
		return gram.Float(), nil
	}

	if ounce := gjson.GetBytes(body, "price"); ounce.Exists() && ounce.Float() > 0 {
		return ounce.Float() / GramsPerTroyOunce, nil
	}

	return 0, fmt.Errorf("%w: response contains no usable price field", domain.ErrGoldAPIFailure)
}
