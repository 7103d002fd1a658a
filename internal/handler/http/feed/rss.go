// Package feed serves the public RSS 2.0 feed of published articles.
package feed

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newshub/internal/common/pagination"
	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	"newshub/internal/repository"
	artUC "newshub/internal/usecase/article"
)

// DefaultItems is the number of articles in the feed.
const DefaultItems = 30

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language,omitempty"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	GUID        guid       `xml:"guid"`
	Description string     `xml:"description"`
	Author      string     `xml:"author,omitempty"`
	Categories  []string   `xml:"category"`
	PubDate     string     `xml:"pubDate"`
	Enclosure   *enclosure `xml:"enclosure,omitempty"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int    `xml:"length,attr"`
}

// Handler renders the newest published articles, live first, as RSS.
type Handler struct {
	Svc *artUC.Service
	// SiteURL is the public base URL used for item links.
	SiteURL string
	Title   string
}

// ServeHTTP RSSフィード
// @Summary      RSS feed
// @Description  RSS 2.0 of the newest published articles, optionally limited to one category.
// @Tags         feed
// @Produce      xml
// @Param        category query string false "Category"
// @Success      200 {string} string "RSS document"
// @Router       /feed.rss [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	result, err := h.Svc.List(r.Context(), artUC.ListQuery{
		Category: category,
		Sort:     repository.SortNewest,
		Params:   pagination.Params{Page: 1, Limit: DefaultItems},
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}

	base := strings.TrimRight(h.SiteURL, "/")
	title := h.Title
	if title == "" {
		title = "Newshub"
	}
	doc := rss{
		Version: "2.0",
		Channel: channel{
			Title:       title,
			Link:        base + "/",
			Description: "Latest stories from " + title,
			Language:    "en",
			Items:       make([]item, 0, len(result.Data)),
		},
	}
	if category != "" {
		doc.Channel.Title = title + " - " + category
	}

	var newest time.Time
	for _, a := range result.Data {
		doc.Channel.Items = append(doc.Channel.Items, toItem(base, a))
		if a.UpdatedAt.After(newest) {
			newest = a.UpdatedAt
		}
	}
	if !newest.IsZero() {
		doc.Channel.LastBuildDate = newest.UTC().Format(time.RFC1123Z)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write RSS feed", slog.Any("error", err))
	}
}

func toItem(base string, a *entity.Article) item {
	link := base + "/articles/" + strconv.FormatInt(a.ID, 10)
	it := item{
		Title:       a.Title,
		Link:        link,
		GUID:        guid{IsPermaLink: true, Value: link},
		Description: a.Summary,
		Author:      a.Author,
		PubDate:     a.PublishedAt.UTC().Format(time.RFC1123Z),
	}
	if a.Category != "" {
		it.Categories = append(it.Categories, a.Category)
	}
	it.Categories = append(it.Categories, a.Tags...)
	if a.ImageURL != "" {
		it.Enclosure = &enclosure{URL: a.ImageURL, Type: "image/jpeg"}
	}
	return it
}
