package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/usecase/article"
	"newshub/internal/utils/text"
)

const DefaultParallelism = 4

// FeedFetcher downloads and parses a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// FeedItem is one entry of a parsed feed. Content holds HTML.
type FeedItem struct {
	Title       string
	URL         string
	Description string
	Content     string
	Author      string
	ImageURL    string
	Categories  []string
	PublishedAt time.Time
}

// ArticleCreator stores imported articles. *article.Service satisfies it.
type ArticleCreator interface {
	Create(ctx context.Context, in article.CreateInput) (*entity.Article, error)
}

// TitleChecker reports whether an article with the given title exists.
type TitleChecker interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

type Request struct {
	FeedURL  string
	Category string
	// Draft imports items unpublished for review.
	Draft bool
}

type Stats struct {
	FeedItems  int64
	Imported   int64
	Duplicates int64
	Failed     int64
	Duration   time.Duration
}

type Service struct {
	Fetcher     FeedFetcher
	Articles    ArticleCreator
	Titles      TitleChecker
	Parallelism int
	Logger      *slog.Logger
}

func NewService(fetcher FeedFetcher, articles ArticleCreator, titles TitleChecker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Fetcher:     fetcher,
		Articles:    articles,
		Titles:      titles,
		Parallelism: DefaultParallelism,
		Logger:      logger,
	}
}

// Import fetches req.FeedURL and creates an article for every item whose
// title is not already stored. Items that fail validation are counted and
// skipped; storage errors and cancellation abort the run.
func (s *Service) Import(ctx context.Context, req Request) (*Stats, error) {
	start := time.Now()
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		return nil, &entity.ValidationError{Field: "category", Message: "category is required"}
	}

	items, err := s.Fetcher.Fetch(ctx, req.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	stats := &Stats{FeedItems: int64(len(items))}
	status := string(entity.StatusPublished)
	if req.Draft {
		status = string(entity.StatusDraft)
	}

	limit := s.Parallelism
	if limit <= 0 {
		limit = DefaultParallelism
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	seen := make(map[string]struct{}, len(items))
	for _, feedItem := range items {
		item := feedItem
		key := strings.ToLower(item.Title)
		// 同一フィード内の重複
		if _, dup := seen[key]; dup && key != "" {
			atomic.AddInt64(&stats.Duplicates, 1)
			continue
		}
		seen[key] = struct{}{}

		eg.Go(func() error {
			return s.importItem(egCtx, item, category, status, stats)
		})
	}

	err = eg.Wait()
	stats.Duration = time.Since(start)
	metrics.RecordFeedImport(stats.Duration, int(stats.Imported), int(stats.Duplicates), int(stats.Failed))
	if err != nil {
		return stats, err
	}

	s.Logger.Info("feed import completed",
		slog.String("feed_url", req.FeedURL),
		slog.String("category", category),
		slog.Int64("feed_items", stats.FeedItems),
		slog.Int64("imported", stats.Imported),
		slog.Int64("duplicates", stats.Duplicates),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) importItem(ctx context.Context, item FeedItem, category, status string, stats *Stats) error {
	if item.Title != "" && s.Titles != nil {
		exists, err := s.Titles.ExistsByTitle(ctx, item.Title)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if exists {
			atomic.AddInt64(&stats.Duplicates, 1)
			return nil
		}
	}

	content := item.Content
	if item.URL != "" {
		content += fmt.Sprintf(`<p><a href="%s">Original story</a></p>`, item.URL)
	}
	in := article.CreateInput{
		Title:    item.Title,
		Summary:  text.Excerpt(item.Description, text.DefaultExcerptLength),
		Content:  content,
		Category: category,
		Author:   item.Author,
		ImageURL: item.ImageURL,
		Tags:     item.Categories,
		Status:   status,
	}

	created, err := s.Articles.Create(ctx, in)
	if err != nil {
		if errors.Is(err, entity.ErrValidationFailed) {
			atomic.AddInt64(&stats.Failed, 1)
			s.Logger.Warn("skipping invalid feed item",
				slog.String("title", item.Title),
				slog.String("url", item.URL),
				slog.Any("error", err))
			return nil
		}
		return fmt.Errorf("create article: %w", err)
	}
	atomic.AddInt64(&stats.Imported, 1)
	s.Logger.Debug("feed item imported",
		slog.Int64("article_id", created.ID),
		slog.String("url", item.URL))
	return nil
}
