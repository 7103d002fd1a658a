// Package remote implements datasource.DataSource against the JSON API of
// another newshub instance.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newshub/internal/datasource"
	"newshub/internal/domain/entity"
	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

// DefaultTimeout bounds each HTTP request, retries excluded.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Retry     retry.Config
	Breaker   circuitbreaker.Config
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		Timeout:   DefaultTimeout,
		UserAgent: "newshub-remote/1.0",
		Retry:     retry.RemoteAPIConfig(),
		Breaker:   circuitbreaker.RemoteAPIConfig(),
	}
}

type Client struct {
	base      *url.URL
	http      *http.Client
	cb        *circuitbreaker.CircuitBreaker
	retry     retry.Config
	userAgent string
	logger    *slog.Logger
}

// New validates the base URL and builds a client. A 404 from the server
// does not count against the circuit breaker.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := entity.ValidateHTTPURL("api_url", cfg.BaseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.RemoteAPIConfig()
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.RemoteAPIConfig()
	}
	cfg.Breaker.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, entity.ErrNotFound)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:      base,
		http:      &http.Client{Timeout: cfg.Timeout},
		cb:        circuitbreaker.New(cfg.Breaker),
		retry:     cfg.Retry,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

/* ───────── DataSource ───────── */

func (c *Client) ListArticles(ctx context.Context, q datasource.ArticleQuery) ([]*entity.Article, error) {
	query := url.Values{}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Sort != "" {
		query.Set("sort", string(q.Sort))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	var page struct {
		Data []articleDTO `json:"data"`
	}
	if err := c.call(ctx, "list articles", http.MethodGet, "/articles", query, &page); err != nil {
		return nil, err
	}
	out := make([]*entity.Article, 0, len(page.Data))
	for _, d := range page.Data {
		out = append(out, d.entity())
	}
	return out, nil
}

func (c *Client) GetArticle(ctx context.Context, id int64) (*entity.Article, error) {
	var dto articleDTO
	if err := c.call(ctx, "get article", http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	return dto.entity(), nil
}

func (c *Client) ListLiveUpdates(ctx context.Context, q datasource.LiveUpdateQuery) ([]*entity.LiveUpdate, error) {
	path := "/live-updates"
	if q.ArticleID != nil {
		path = fmt.Sprintf("/articles/%d/live-updates", *q.ArticleID)
	}
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var dtos []liveUpdateDTO
	if err := c.call(ctx, "list live updates", http.MethodGet, path, query, &dtos); err != nil {
		return nil, err
	}
	out := make([]*entity.LiveUpdate, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.entity())
	}
	return out, nil
}

// IncrementViewCount is best-effort and is skipped while the breaker is open.
func (c *Client) IncrementViewCount(ctx context.Context, id int64) {
	if c.cb.IsOpen() {
		c.logger.Debug("skipping remote view count, circuit open",
			slog.Int64("article_id", id))
		return
	}
	err := c.call(ctx, "increment view count", http.MethodPost, fmt.Sprintf("/articles/%d/views", id), nil, nil)
	if err != nil {
		c.logger.Warn("remote view count failed",
			slog.Int64("article_id", id),
			slog.Any("error", err))
	}
}

var _ datasource.DataSource = (*Client)(nil)

/* ───────── transport ───────── */

// call runs one API request under retry and the circuit breaker. NotFound is
// returned as is; every other failure becomes an *entity.TransportError.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, out any) error {
	err := retry.WithBackoff(ctx, c.retry, func() error {
		_, err := circuitbreaker.Do(c.cb, func() (struct{}, error) {
			return struct{}{}, c.do(ctx, method, path, query, out)
		})
		return err
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return &entity.TransportError{Op: op, Err: err}
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	body := io.LimitReader(resp.Body, maxBody)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, body)
		return fmt.Errorf("%s %s: %w", method, path, entity.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
