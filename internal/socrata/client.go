package socrata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"rodent-dashboard/internal/metrics"
)

const appTokenHeader = "X-App-Token"

// InspectionRow is one loosely-typed record as the dataset API returns it.
// Pointer fields distinguish an absent column from an empty value.
type InspectionRow struct {
	Borough        *string `json:"borough,omitempty"`
	Result         *string `json:"result,omitempty"`
	InspectionDate *string `json:"inspection_date,omitempty"`
	InspectionType *string `json:"inspection_type,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	NTA            *string `json:"nta,omitempty"`
	Latitude       *string `json:"latitude,omitempty"`
	Longitude      *string `json:"longitude,omitempty"`
}

type RawPayload []InspectionRow

type ClientConfig struct {
	BaseURL    string
	Dataset    string
	AppToken   string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Client executes reads against one Socrata dataset. Transient failures are
// retried with exponential backoff; HTTP status, parse, and schema failures
// are terminal on the first occurrence.
type Client struct {
	resourceURL string
	appToken    string
	timeout     time.Duration
	maxRetries  int
	backoff     time.Duration
	httpClient  *http.Client
	log         zerolog.Logger
}

func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	return &Client{
		resourceURL: fmt.Sprintf("%s/resource/%s.json", cfg.BaseURL, cfg.Dataset),
		appToken:    cfg.AppToken,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		backoff:     cfg.Backoff,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log,
	}
}

// AuthContext identifies the rate-limit identity requests run under, for
// inclusion in cache keys.
func (c *Client) AuthContext() string {
	return c.appToken
}

func (c *Client) Query(ctx context.Context, params WireParams) (RawPayload, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.FetchRetries.Inc()
			c.log.Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying dataset query")
			select {
			case <-ctx.Done():
				metrics.FetchFailures.Inc()
				return nil, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		payload, err := c.queryOnce(ctx, params)
		if err == nil {
			return payload, nil
		}
		if !isTransient(err) {
			metrics.FetchFailures.Inc()
			return nil, err
		}
		lastErr = err
	}

	metrics.FetchFailures.Inc()
	return nil, fmt.Errorf("%w: %d attempts exhausted: %v", ErrNetwork, c.maxRetries+1, lastErr)
}

func (c *Client) queryOnce(ctx context.Context, params WireParams) (RawPayload, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.resourceURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set(appTokenHeader, c.appToken)
	}

	metrics.FetchRequests.Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	var payload RawPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := checkSchema(payload); err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("rows", len(payload)).
		Dur("duration", time.Since(start)).
		Msg("dataset query completed")

	return payload, nil
}

// checkSchema verifies the columns normalization depends on are present
// somewhere in a non-empty payload. An empty payload is valid.
func checkSchema(payload RawPayload) error {
	if len(payload) == 0 {
		return nil
	}
	var hasDate, hasBorough, hasResult bool
	for _, row := range payload {
		hasDate = hasDate || row.InspectionDate != nil
		hasBorough = hasBorough || row.Borough != nil
		hasResult = hasResult || row.Result != nil
		if hasDate && hasBorough && hasResult {
			return nil
		}
	}
	switch {
	case !hasDate:
		return fmt.Errorf("%w: %s", ErrSchema, ColumnInspectionDate)
	case !hasBorough:
		return fmt.Errorf("%w: %s", ErrSchema, ColumnBorough)
	default:
		return fmt.Errorf("%w: %s", ErrSchema, ColumnResult)
	}
}

func isTransient(err error) bool {
	if errors.Is(err, ErrHTTPStatus) || errors.Is(err, ErrParse) || errors.Is(err, ErrSchema) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}
