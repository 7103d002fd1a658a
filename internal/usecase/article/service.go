package article

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"newshub/internal/common/pagination"
	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/pkg/search"
	"newshub/internal/repository"
	"newshub/internal/utils/text"
)

// Defaults for the shortlist queries.
const (
	DefaultPopularLimit = 5
	DefaultRecentLimit  = 10
	DefaultRelatedLimit = 3
	maxShortlistLimit   = 50
)

// Summarizer drafts a summary from article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// CreateInput represents the input parameters for creating a new article.
// Status may be blank, which means published.
type CreateInput struct {
	Title    string
	Summary  string
	Content  string
	Category string
	Author   string
	ImageURL string
	Featured bool
	IsLive   bool
	Tags     []string
	Status   string
}

// UpdateInput represents the input parameters for updating an existing article.
// Fields with nil values will not be updated.
type UpdateInput struct {
	Title    *string
	Summary  *string
	Content  *string
	Category *string
	Author   *string
	ImageURL *string
	Featured *bool
	IsLive   *bool
	Tags     *[]string
	Status   *string
}

// ListQuery selects a page of published articles. A positive Offset takes
// precedence over Params.Page; the reported page is the one containing it.
type ListQuery struct {
	Category string
	Sort     repository.ArticleSort
	Params   pagination.Params
	Offset   int
	LiveOnly bool
}

// PaginatedResult represents the result of a paginated query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []*entity.Article
	Pagination pagination.Metadata
}

// Service provides article management use cases.
// It handles business logic for article operations and delegates persistence to the repository.
type Service struct {
	Repo       repository.ArticleRepository
	Summarizer Summarizer // optional
	Policy     *bluemonday.Policy
	Paging     pagination.Config
	Logger     *slog.Logger
	Now        func() time.Time
}

// NewService wires a Service with the default content policy and pagination settings.
// summarizer may be nil, in which case summaries fall back to a plain-text excerpt.
func NewService(repo repository.ArticleRepository, summarizer Summarizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:       repo,
		Summarizer: summarizer,
		Policy:     ContentPolicy(),
		Paging:     pagination.DefaultConfig(),
		Logger:     logger,
		Now:        time.Now,
	}
}

// ContentPolicy is the HTML allow-list applied to article bodies.
func ContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) sanitize(html string) string {
	if s.Policy == nil {
		s.Policy = ContentPolicy()
	}
	return strings.TrimSpace(s.Policy.Sanitize(html))
}

func (s *Service) paging() pagination.Config {
	if s.Paging.MaxLimit == 0 {
		return pagination.DefaultConfig()
	}
	return s.Paging
}

/* ───────────────────────────── Queries ───────────────────────────── */

// List returns a page of published articles, live first, then by q.Sort.
func (s *Service) List(ctx context.Context, q ListQuery) (*PaginatedResult, error) {
	params := q.Params.WithDefaults(s.paging())
	filter := repository.ArticleFilter{
		Category: strings.TrimSpace(q.Category),
		Sort:     q.Sort,
		LiveOnly: q.LiveOnly,
	}

	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	filter.Limit = params.Limit
	filter.Offset = pagination.CalculateOffset(params.Page, params.Limit)
	if q.Offset > 0 {
		filter.Offset = q.Offset
		params.Page = q.Offset/params.Limit + 1
	}
	articles, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PaginatedResult{
		Data: articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Search finds published articles whose title, summary, content or tags
// contain keyword, newest first.
func (s *Service) Search(ctx context.Context, keyword string, params pagination.Params) (*PaginatedResult, error) {
	kw := search.NormalizeKeyword(keyword)
	if kw == "" {
		return nil, &entity.ValidationError{Field: "q", Message: ErrEmptyKeyword.Error()}
	}
	params = params.WithDefaults(s.paging())

	total, err := s.Repo.CountSearch(ctx, kw)
	if err != nil {
		return nil, fmt.Errorf("count search: %w", err)
	}
	articles, err := s.Repo.Search(ctx, repository.SearchFilter{
		Keyword: kw,
		Limit:   params.Limit,
		Offset:  pagination.CalculateOffset(params.Page, params.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}

	return &PaginatedResult{
		Data: articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Featured returns the newest live article, or the newest article when none is live.
func (s *Service) Featured(ctx context.Context) (*entity.Article, error) {
	// live articles sort first, so the head of the newest listing is the answer either way
	articles, err := s.Repo.List(ctx, repository.ArticleFilter{Sort: repository.SortNewest, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("featured article: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrArticleNotFound
	}
	return articles[0], nil
}

// Live returns every published live article, newest first.
func (s *Service) Live(ctx context.Context) ([]*entity.Article, error) {
	articles, err := s.Repo.List(ctx, repository.ArticleFilter{Sort: repository.SortNewest, LiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("live articles: %w", err)
	}
	return articles, nil
}

// Popular returns the most viewed published articles regardless of live status.
func (s *Service) Popular(ctx context.Context, limit int) ([]*entity.Article, error) {
	articles, err := s.shortlist(ctx, repository.SortPopular, clampLimit(limit, DefaultPopularLimit), func(a, b *entity.Article) bool {
		return a.ViewCount > b.ViewCount
	})
	if err != nil {
		return nil, fmt.Errorf("popular articles: %w", err)
	}
	return articles, nil
}

// Recent returns the most recently published articles regardless of live status.
func (s *Service) Recent(ctx context.Context, limit int) ([]*entity.Article, error) {
	articles, err := s.shortlist(ctx, repository.SortNewest, clampLimit(limit, DefaultRecentLimit), func(a, b *entity.Article) bool {
		return a.PublishedAt.After(b.PublishedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}
	return articles, nil
}

// shortlist returns the top limit articles by less, ignoring the live-first rule
// that repository listings apply. It fetches every live article plus limit more,
// which is enough to contain the true top limit.
func (s *Service) shortlist(ctx context.Context, by repository.ArticleSort, limit int, less func(a, b *entity.Article) bool) ([]*entity.Article, error) {
	liveCount, err := s.Repo.Count(ctx, repository.ArticleFilter{LiveOnly: true})
	if err != nil {
		return nil, err
	}
	articles, err := s.Repo.List(ctx, repository.ArticleFilter{Sort: by, Limit: int(liveCount) + limit})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(articles, func(i, j int) bool { return less(articles[i], articles[j]) })
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// Related returns up to limit other published articles from the same category, newest first.
func (s *Service) Related(ctx context.Context, id int64, limit int) ([]*entity.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultRelatedLimit)
	if article.Category == "" {
		return []*entity.Article{}, nil
	}

	candidates, err := s.Repo.List(ctx, repository.ArticleFilter{
		Category: article.Category,
		Sort:     repository.SortNewest,
		Limit:    limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("related articles: %w", err)
	}
	related := make([]*entity.Article, 0, limit)
	for _, c := range candidates {
		if c.ID != id && len(related) < limit {
			related = append(related, c)
		}
	}
	return related, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxShortlistLimit)
}

/* ───────────────────────────── Mutations ───────────────────────────── */

// Create validates and stores a new article. Content is sanitized; a blank
// summary is drafted by the Summarizer or derived from the content.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Article, error) {
	status, err := entity.ParseArticleStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	art := &entity.Article{
		Title:       strings.TrimSpace(in.Title),
		Summary:     strings.TrimSpace(in.Summary),
		Content:     s.sanitize(in.Content),
		Category:    strings.TrimSpace(in.Category),
		Author:      strings.TrimSpace(in.Author),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Featured:    in.Featured,
		IsLive:      in.IsLive,
		ViewCount:   0,
		Tags:        entity.SplitTags(entity.JoinTags(in.Tags)),
		Status:      status,
		PublishedAt: now,
		UpdatedAt:   now,
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}

	if art.Summary == "" {
		art.Summary = s.draftSummary(ctx, art.Content)
	} else {
		metrics.RecordSummary(metrics.SummaryProvided)
	}

	if err := s.Repo.Create(ctx, art); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	metrics.RecordArticleCreated(string(art.Status))
	s.logger().Info("article created",
		slog.Int64("article_id", art.ID),
		slog.String("status", string(art.Status)),
		slog.Bool("is_live", art.IsLive))
	return art, nil
}

// draftSummary never fails: summarizer errors degrade to a plain-text excerpt.
func (s *Service) draftSummary(ctx context.Context, content string) string {
	plain := text.PlainText(content)
	if s.Summarizer != nil && plain != "" {
		start := time.Now()
		summary, err := s.Summarizer.Summarize(ctx, plain)
		metrics.RecordSummarizationDuration(time.Since(start))
		if err == nil && strings.TrimSpace(summary) != "" {
			metrics.RecordSummary(metrics.SummaryAI)
			return strings.TrimSpace(summary)
		}
		if err != nil {
			s.logger().Warn("summarizer failed, using excerpt", slog.Any("error", err))
		}
	}
	metrics.RecordSummary(metrics.SummaryExcerpt)
	return text.Truncate(plain, text.DefaultExcerptLength)
}

// Update applies the supplied fields to an existing article and refreshes UpdatedAt.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
// Returns a ValidationError if the result is invalid; nothing is written in that case.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.Article, error) {
	art, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		art.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		art.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Content != nil {
		art.Content = s.sanitize(*in.Content)
	}
	if in.Category != nil {
		art.Category = strings.TrimSpace(*in.Category)
	}
	if in.Author != nil {
		art.Author = strings.TrimSpace(*in.Author)
	}
	if in.ImageURL != nil {
		art.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Featured != nil {
		art.Featured = *in.Featured
	}
	if in.IsLive != nil {
		art.IsLive = *in.IsLive
	}
	if in.Tags != nil {
		art.Tags = entity.SplitTags(entity.JoinTags(*in.Tags))
	}
	if in.Status != nil {
		status, err := entity.ParseArticleStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		art.Status = status
	}
	art.UpdatedAt = s.now()

	if err := art.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, art); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return art, nil
}

// Delete removes an article by its ID. Its live updates are left in place.
// Returns ErrInvalidArticleID if the ID is not positive.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	s.logger().Info("article deleted", slog.Int64("article_id", id))
	return nil
}

// IncrementViewCount bumps the view counter. It is best effort: failures are
// logged and counted, never returned.
func (s *Service) IncrementViewCount(ctx context.Context, id int64) {
	if id <= 0 {
		return
	}
	if err := s.Repo.IncrementViewCount(ctx, id); err != nil {
		metrics.RecordArticleView(false)
		s.logger().Warn("increment view count failed",
			slog.Int64("article_id", id),
			slog.Any("error", err))
		return
	}
	metrics.RecordArticleView(true)
}

// CountPublished refreshes the published-articles gauge and returns the count.
func (s *Service) CountPublished(ctx context.Context) (int64, error) {
	n, err := s.Repo.Count(ctx, repository.ArticleFilter{})
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	metrics.UpdateArticlesTotal(n)
	return n, nil
}
