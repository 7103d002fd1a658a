package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"newshub/internal/datasource"
	"newshub/internal/domain/entity"
	"newshub/internal/live"
	"newshub/internal/repository"
)

// homeCommand shows what the portal front page shows: the latest articles and
// the most recent live updates across all articles.
type homeCommand struct {
	Articles int           `long:"articles" default:"6" description:"Number of articles"`
	Updates  int           `long:"updates" default:"6" description:"Number of live updates"`
	Interval time.Duration `long:"interval" default:"5m" description:"Refresh interval"`
	Once     bool          `long:"once" description:"Print the first load and exit"`

	app *app
	mu  sync.Mutex
}

func (c *homeCommand) Execute([]string) error {
	if c.Interval <= 0 {
		return errors.New("--interval must be positive")
	}
	ds, closeSource, err := c.app.source()
	if err != nil {
		return err
	}
	defer closeSource()

	articles := live.NewView(datasource.Articles(ds, datasource.ArticleQuery{
		Sort:  repository.SortNewest,
		Limit: c.Articles,
	}), live.ViewConfig{Name: "newsctl-home-articles", Interval: c.Interval, Logger: c.app.logger})
	updates := live.NewView(datasource.LiveUpdates(ds, datasource.LiveUpdateQuery{
		Limit: c.Updates,
	}), live.ViewConfig{Name: "newsctl-home-updates", Interval: c.Interval, Logger: c.app.logger})

	// 2つのビューは並行して描画されるので出力をまとめて直列化する
	articles.OnChange(func(s live.Snapshot[*entity.Article]) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s.LastError != nil {
			fmt.Fprintf(c.app.out, "! article refresh failed: %v\n", s.LastError)
			return
		}
		printPage(c.app.out, live.Paginate(s.Items, 1, max(c.Articles, 1)))
	})
	updates.OnChange(func(s live.Snapshot[*entity.LiveUpdate]) {
		c.mu.Lock()
		defer c.mu.Unlock()
		printFeed(c.app.out, "Live updates", s)
	})

	if err := live.MountAll(c.app.ctx, articles, updates); err != nil {
		return err
	}
	defer articles.Unmount()
	defer updates.Unmount()

	if !c.Once {
		<-c.app.ctx.Done()
	}
	return nil
}
