// Package scraper fetches RSS and Atom feeds for the importer.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
	"newshub/internal/usecase/importer"
)

const userAgent = "NewshubImporter/1.0"

// RSSFetcher implements importer.FeedFetcher with gofeed, behind a circuit
// breaker and retry with backoff.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	// DenyPrivateIPs rejects feeds whose host resolves to a loopback,
	// private or link-local address.
	DenyPrivateIPs bool
}

func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		DenyPrivateIPs: true,
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]importer.FeedItem, error) {
	if err := validateURL(feedURL, f.DenyPrivateIPs); err != nil {
		return nil, err
	}

	var items []importer.FeedItem
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		var err error
		items, err = circuitbreaker.Do(f.circuitBreaker, func() ([]importer.FeedItem, error) {
			return f.doFetch(ctx, feedURL)
		})
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("url", feedURL),
				slog.String("state", f.circuitBreaker.State().String()))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", importer.ErrFeedFetchFailed, err)
	}
	return items, nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]importer.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return nil, fmt.Errorf("%w: %v", importer.ErrInvalidFeedFormat, err)
		}
		return nil, err
	}

	items := make([]importer.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, toFeedItem(it))
	}
	return items, nil
}

func toFeedItem(it *gofeed.Item) importer.FeedItem {
	item := importer.FeedItem{
		Title:       strings.TrimSpace(it.Title),
		URL:         it.Link,
		Description: it.Description,
		Content:     it.Content,
		Categories:  it.Categories,
	}
	// Content優先、なければDescription
	if item.Content == "" {
		item.Content = it.Description
	}
	if it.PublishedParsed != nil {
		item.PublishedAt = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		item.PublishedAt = *it.UpdatedParsed
	}
	if it.Author != nil {
		item.Author = it.Author.Name
	} else if len(it.Authors) > 0 && it.Authors[0] != nil {
		item.Author = it.Authors[0].Name
	}
	if it.Image != nil {
		item.ImageURL = it.Image.URL
	} else {
		for _, enc := range it.Enclosures {
			if enc != nil && strings.HasPrefix(enc.Type, "image/") {
				item.ImageURL = enc.URL
				break
			}
		}
	}
	return item
}
