package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"newshub/internal/datasource"
	"newshub/internal/domain/entity"
	"newshub/internal/live"
	"newshub/internal/repository"
)

type articlesCommand struct {
	Category string        `long:"category" description:"Only list this category"`
	Sort     string        `long:"sort" default:"newest" choice:"newest" choice:"oldest" choice:"popular" description:"Listing order"`
	Page     int           `long:"page" default:"1" description:"Page to show"`
	PerPage  int           `long:"per-page" default:"12" description:"Articles per page"`
	Follow   bool          `long:"follow" description:"Keep refreshing and redraw the page"`
	Interval time.Duration `long:"interval" default:"5m" description:"Refresh interval with --follow"`

	app *app
}

// maxListed is how many articles one refresh loads; pages are cut locally.
const maxListed = 50

func (c *articlesCommand) Execute([]string) error {
	sort, ok := repository.ParseArticleSort(c.Sort)
	if !ok {
		return fmt.Errorf("unknown sort %q", c.Sort)
	}
	ds, closeSource, err := c.app.source()
	if err != nil {
		return err
	}
	defer closeSource()

	view := live.NewView(datasource.Articles(ds, datasource.ArticleQuery{
		Category: c.Category,
		Sort:     sort,
		Limit:    maxListed,
	}), live.ViewConfig{
		Name:     "newsctl-articles",
		Interval: c.Interval,
		Logger:   c.app.logger,
	})
	view.OnChange(func(s live.Snapshot[*entity.Article]) {
		if s.LastError != nil {
			fmt.Fprintf(c.app.out, "! refresh failed: %v\n", s.LastError)
			return
		}
		printPage(c.app.out, live.Paginate(s.Items, c.Page, c.PerPage))
	})
	if err := view.Mount(c.app.ctx); err != nil {
		return err
	}
	defer view.Unmount()

	if c.Follow {
		<-c.app.ctx.Done()
	}
	return nil
}

func printPage(w io.Writer, p live.Page[*entity.Article]) {
	if p.Clamped {
		fmt.Fprintf(w, "page no longer exists, showing page %d\n", p.Page)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tVIEWS\tPUBLISHED\t")
	for _, a := range p.Items {
		title := a.Title
		if a.IsLive {
			title = "[LIVE] " + title
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t\n", a.ID, title, a.Category, a.ViewCount, a.PublishedAt.Format(time.DateOnly))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d/%d (%d articles)\n", p.Page, p.TotalPages, p.TotalItems)
}
