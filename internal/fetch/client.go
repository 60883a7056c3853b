package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"nflpulse/internal/config"
	apperrors "nflpulse/internal/errors"
	"nflpulse/internal/infrastructure"
	"nflpulse/internal/pipeline"
)

// Client fetches raw team and game tables from the upstream sports data API.
// Requests are rate limited so a full season backfill stays inside the
// provider's request quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new API client from configuration
func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.Key,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.With(slog.String("component", "fetch_client")),
	}
}

// FetchTeams retrieves the raw team table
func (c *Client) FetchTeams(ctx context.Context) ([]pipeline.Row, error) {
	return c.fetchTable(ctx, "teams", "/scores/json/Teams")
}

// FetchGames retrieves the raw game table for a season.
// The endpoint addresses seasons as "<year><type>", e.g. 2024REG.
func (c *Client) FetchGames(ctx context.Context, season, seasonType string) ([]pipeline.Row, error) {
	return c.fetchTable(ctx, "games", fmt.Sprintf("/scores/json/Schedules/%s%s", season, seasonType))
}

// fetchTable performs a rate-limited GET and decodes the JSON array response
// into raw rows
func (c *Client) fetchTable(ctx context.Context, table, path string) ([]pipeline.Row, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NFLPulse-Client/1.0")
	if c.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "HTTP request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		infrastructure.FetchRequestsTotal.WithLabelValues(table, "error").Inc()
		return nil, apperrors.NewNetworkError(fmt.Sprintf("GET %s", path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("read response for %s", path), err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "upstream returned error status",
			slog.String("path", path),
			slog.Int("status_code", resp.StatusCode),
		)
		infrastructure.FetchRequestsTotal.WithLabelValues(table, "error").Inc()
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("GET %s returned status %d", path, resp.StatusCode), nil)
	}

	rows, err := decodeRows(body)
	if err != nil {
		infrastructure.FetchRequestsTotal.WithLabelValues(table, "error").Inc()
		return nil, apperrors.NewParsingError(fmt.Sprintf("decode response for %s", path), err)
	}

	infrastructure.FetchRequestsTotal.WithLabelValues(table, "success").Inc()
	c.logger.InfoContext(ctx, "fetched table",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)),
	)

	return rows, nil
}

// decodeRows converts a JSON array of objects into raw string rows.
// Scalar values are stringified; nulls become empty strings so downstream
// cleaning treats them as missing.
func decodeRows(body []byte) ([]pipeline.Row, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}

	rows := make([]pipeline.Row, 0, len(records))
	for _, record := range records {
		row := make(pipeline.Row, len(record))
		for key, value := range record {
			row[key] = stringifyValue(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stringifyValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
