package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newshub/internal/infra/scraper"
	"newshub/internal/usecase/importer"
)

type importCommand struct {
	Feed     string        `long:"feed" required:"true" description:"RSS or Atom feed URL"`
	Category string        `long:"category" required:"true" description:"Category slug for imported articles"`
	Draft    bool          `long:"draft" description:"Import unpublished for review"`
	Timeout  time.Duration `long:"timeout" default:"30s" description:"Feed download timeout"`

	// 社内フィード用
	AllowPrivate bool `long:"allow-private" description:"Allow feeds on private or loopback addresses"`

	app *app
}

func (c *importCommand) Execute([]string) error {
	svc, err := c.app.openServices()
	if err != nil {
		return err
	}
	defer svc.close(c.app.logger)

	fetcher := scraper.NewRSSFetcher(&http.Client{Timeout: c.Timeout})
	fetcher.DenyPrivateIPs = !c.AllowPrivate
	imp := importer.NewService(fetcher, svc.articles, svc.stores.Articles, c.app.logger)

	stats, err := imp.Import(c.app.ctx, importer.Request{
		FeedURL:  c.Feed,
		Category: c.Category,
		Draft:    c.Draft,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", c.Feed, err)
	}
	c.app.logger.Info("feed imported",
		slog.String("feed", c.Feed),
		slog.Duration("duration", stats.Duration))
	fmt.Fprintf(c.app.out, "%d items: %d imported, %d duplicates, %d failed\n",
		stats.FeedItems, stats.Imported, stats.Duplicates, stats.Failed)
	return nil
}
