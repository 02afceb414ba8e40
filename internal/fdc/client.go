// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fdc is a client for the USDA FoodData Central API.
package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pdiddy/macro-tracker/internal/httputil"
	"github.com/pdiddy/macro-tracker/internal/logging"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// DefaultBaseURL is the public FDC v1 endpoint.
const DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// Defaults applied by NewClient for unset config fields.
const (
	DefaultPageSize          = 25
	DefaultRequestsPerSecond = 2.0
	DefaultTimeout           = 15 * time.Second
	DefaultMaxRetries        = 5
)

const maxErrorBody = 512

// DefaultDataTypes are the curated FDC data sets with reliable per-100 g values.
var DefaultDataTypes = []string{"Foundation", "SR Legacy"}

// APIError is returned for any non-200 response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("FDC API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("FDC API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an FDC 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls FDC. It is safe for concurrent use; outbound requests share
// one token bucket.
type Client struct {
	HTTP       *http.Client
	apiKey     string
	baseURL    string
	dataTypes  []string
	pageSize   int
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient returns a client configured from cfg, filling defaults for
// unset fields.
func NewClient(cfg types.FDCConfig) *Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	dataTypes := cfg.DataTypes
	if len(dataTypes) == 0 {
		dataTypes = DefaultDataTypes
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "macro-tracker"
	}

	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		dataTypes:  dataTypes,
		pageSize:   pageSize,
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// DataTypes returns the data types used when Search is called without any.
func (c *Client) DataTypes() []string { return c.dataTypes }

type searchResponse struct {
	TotalHits int                `json:"totalHits"`
	Foods     []types.FoodRecord `json:"foods"`
}

// Search runs a free-text query restricted to dataTypes (the client's
// defaults when empty).
func (c *Client) Search(ctx context.Context, query string, dataTypes []string) ([]types.FoodRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty FDC query")
	}
	if len(dataTypes) == 0 {
		dataTypes = c.dataTypes
	}

	params := url.Values{
		"query":    {query},
		"dataType": {strings.Join(dataTypes, ",")},
		"pageSize": {strconv.Itoa(c.pageSize)},
	}

	var sr searchResponse
	if err := c.get(ctx, "/foods/search", params, &sr); err != nil {
		return nil, err
	}

	logging.Default().WithFields(logrus.Fields{
		"query":      query,
		"data_types": dataTypes,
		"hits":       sr.TotalHits,
		"returned":   len(sr.Foods),
	}).Debug("fdc search")

	if sr.Foods == nil {
		return []types.FoodRecord{}, nil
	}
	return sr.Foods, nil
}

// Get fetches the full record for one food.
func (c *Client) Get(ctx context.Context, fdcID int) (*types.FoodRecord, error) {
	if fdcID <= 0 {
		return nil, fmt.Errorf("invalid FDC id %d", fdcID)
	}
	var food types.FoodRecord
	path := "/food/" + strconv.Itoa(fdcID)
	if err := c.get(ctx, path, url.Values{"format": {"full"}}, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("FDC request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing FDC response: %w", err)
	}
	return nil
}
