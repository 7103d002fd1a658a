package memory

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"newshub/internal/domain/entity"
)

//go:embed seed/newsroom.yaml
var defaultSeed []byte

// Fixture is the YAML layout accepted by Seed.
type Fixture struct {
	Categories  []CategoryFixture   `yaml:"categories"`
	Articles    []ArticleFixture    `yaml:"articles"`
	LiveUpdates []LiveUpdateFixture `yaml:"live_updates"`
}

type CategoryFixture struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
	SortOrder   int    `yaml:"sort_order"`
	Active      *bool  `yaml:"active"`
}

type ArticleFixture struct {
	ID          int64     `yaml:"id"`
	Title       string    `yaml:"title"`
	Summary     string    `yaml:"summary"`
	Content     string    `yaml:"content"`
	Category    string    `yaml:"category"`
	Author      string    `yaml:"author"`
	ImageURL    string    `yaml:"image_url"`
	Featured    bool      `yaml:"featured"`
	IsLive      bool      `yaml:"is_live"`
	ViewCount   int64     `yaml:"view_count"`
	Tags        []string  `yaml:"tags"`
	Status      string    `yaml:"status"`
	PublishedAt time.Time `yaml:"published_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

type LiveUpdateFixture struct {
	ID         int64     `yaml:"id"`
	ArticleID  int64     `yaml:"article_id"`
	Heading    string    `yaml:"heading"`
	Content    string    `yaml:"content"`
	SocialLink string    `yaml:"social_link"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// ParseFixture decodes a YAML fixture. Unknown keys are rejected.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(bytes.NewReader(data))
}

// DefaultFixture returns the bundled newsroom seed.
func DefaultFixture() *Fixture {
	f, err := ParseFixture(bytes.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("memory: bundled seed is invalid: %v", err))
	}
	return f
}

// Seed replaces the store's contents with f. Every record is validated first;
// on error the store is left unchanged.
func (s *Store) Seed(f *Fixture) error {
	categories := make([]*entity.Category, 0, len(f.Categories))
	for _, cf := range f.Categories {
		c := &entity.Category{
			ID:          cf.ID,
			Name:        cf.Name,
			Slug:        cf.Slug,
			Description: cf.Description,
			Color:       cf.Color,
			Icon:        cf.Icon,
			SortOrder:   cf.SortOrder,
			IsActive:    cf.Active == nil || *cf.Active,
		}
		if c.Slug == "" {
			c.Slug = entity.Slugify(c.Name)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("seed category %d: %w", cf.ID, err)
		}
		categories = append(categories, c)
	}

	articles := make([]*entity.Article, 0, len(f.Articles))
	for _, af := range f.Articles {
		status, err := entity.ParseArticleStatus(af.Status)
		if err != nil {
			return fmt.Errorf("seed article %d: %w", af.ID, err)
		}
		a := &entity.Article{
			ID:          af.ID,
			Title:       af.Title,
			Summary:     af.Summary,
			Content:     af.Content,
			Category:    af.Category,
			Author:      af.Author,
			ImageURL:    af.ImageURL,
			Featured:    af.Featured,
			IsLive:      af.IsLive,
			ViewCount:   af.ViewCount,
			Tags:        entity.SplitTags(entity.JoinTags(af.Tags)),
			Status:      status,
			PublishedAt: af.PublishedAt,
			UpdatedAt:   af.UpdatedAt,
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.PublishedAt
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("seed article %d: %w", af.ID, err)
		}
		articles = append(articles, a)
	}

	updates := make([]*entity.LiveUpdate, 0, len(f.LiveUpdates))
	for _, uf := range f.LiveUpdates {
		u := &entity.LiveUpdate{
			ID:         uf.ID,
			ArticleID:  uf.ArticleID,
			Heading:    entity.ResolveHeading(uf.Heading),
			Content:    uf.Content,
			SocialLink: entity.NormalizeSocialLink(uf.SocialLink),
			Timestamp:  uf.Timestamp,
		}
		if err := u.Validate(); err != nil {
			return fmt.Errorf("seed live update %d: %w", uf.ID, err)
		}
		updates = append(updates, u)
	}

	if err := checkIDs("category", categories); err != nil {
		return err
	}
	if err := checkIDs("article", articles); err != nil {
		return err
	}
	if err := checkIDs("live update", updates); err != nil {
		return err
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID < articles[j].ID })
	sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories, s.articles, s.updates = categories, articles, updates
	s.lastCategoryID = lastID(categories)
	s.lastArticleID = lastID(articles)
	s.lastUpdateID = lastID(updates)
	return nil
}

// checkIDs rejects missing and repeated ids within one collection.
func checkIDs[T interface{ GetID() int64 }](kind string, items []T) error {
	seen := make(map[int64]struct{}, len(items))
	for i, item := range items {
		id := item.GetID()
		if id <= 0 {
			return fmt.Errorf("seed %s #%d: %w", kind, i+1,
				&entity.ValidationError{Field: "id", Message: "must be positive"})
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("seed %s %d: %w", kind, id,
				&entity.ValidationError{Field: "id", Message: "is used more than once"})
		}
		seen[id] = struct{}{}
	}
	return nil
}

func lastID[T interface{ GetID() int64 }](items []T) int64 {
	if len(items) == 0 {
		return 0
	}
	return items[len(items)-1].GetID()
}
