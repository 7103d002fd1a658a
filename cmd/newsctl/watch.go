package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"newshub/internal/datasource"
	"newshub/internal/domain/entity"
	"newshub/internal/live"
)

// viewCountTimeout bounds the best-effort view count of a followed article.
const viewCountTimeout = 5 * time.Second

type watchCommand struct {
	Article  int64         `long:"article" description:"Follow one article's live updates (0 follows the global feed)"`
	Interval time.Duration `long:"interval" default:"5m" description:"Refresh interval"`
	Limit    int           `long:"limit" default:"20" description:"Number of updates to show"`
	Once     bool          `long:"once" description:"Print the first load and exit"`

	app *app
}

func (c *watchCommand) Execute([]string) error {
	if c.Interval <= 0 {
		return errors.New("--interval must be positive")
	}
	ds, closeSource, err := c.app.source()
	if err != nil {
		return err
	}
	defer closeSource()

	ctx := c.app.ctx
	q := datasource.LiveUpdateQuery{Limit: c.Limit}
	title := "Live feed"
	var eligible func() bool
	if c.Article > 0 {
		a, err := ds.GetArticle(ctx, c.Article)
		if err != nil {
			return fmt.Errorf("article %d: %w", c.Article, err)
		}
		id := a.ID
		q.ArticleID = &id
		title = a.Title
		eligible = datasource.LiveEligible(a)

		// 閲覧数は描画を待たせずに数える
		counted := make(chan struct{})
		go func() {
			defer close(counted)
			vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewCountTimeout)
			defer cancel()
			ds.IncrementViewCount(vctx, id)
		}()
		defer func() { <-counted }()
	}

	view := live.NewView(datasource.LiveUpdates(ds, q), live.ViewConfig{
		Name:     "newsctl-watch",
		Interval: c.Interval,
		Logger:   c.app.logger,
		Eligible: eligible,
	})
	view.OnChange(func(s live.Snapshot[*entity.LiveUpdate]) {
		printFeed(c.app.out, title, s)
	})
	if err := view.Mount(ctx); err != nil {
		return err
	}
	defer view.Unmount()

	if c.Once {
		return nil
	}
	if !view.Armed() {
		fmt.Fprintln(c.app.out, "article is not live; nothing to follow")
		return nil
	}
	c.app.logger.Debug("following feed", slog.Duration("interval", c.Interval))
	<-ctx.Done()
	return nil
}

// printFeed renders one snapshot. A failed refresh keeps the previous items
// and only adds a warning line.
func printFeed(w io.Writer, title string, s live.Snapshot[*entity.LiveUpdate]) {
	if s.LastError != nil {
		fmt.Fprintf(w, "! refresh failed, showing data from %s\n", s.LastRefresh.Format(time.TimeOnly))
		return
	}
	fmt.Fprintf(w, "== %s (%d updates, %s)\n", title, len(s.Items), s.LastRefresh.Format(time.TimeOnly))
	for _, u := range s.Items {
		marker := "   "
		if s.HasNew && u.ID == s.NewID {
			marker = "NEW"
		}
		fmt.Fprintf(w, "%s %s  %s\n", marker, u.Timestamp.Format("15:04"), entity.ResolveHeading(u.Heading))
		if content := strings.TrimSpace(u.Content); content != "" {
			fmt.Fprintf(w, "      %s\n", content)
		}
	}
}
