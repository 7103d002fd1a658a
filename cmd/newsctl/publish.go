package main

import (
	"errors"
	"fmt"

	"newshub/internal/domain/entity"
	"newshub/internal/usecase/editor"
)

type publishCommand struct {
	ID       int64    `long:"id" description:"Edit an existing article instead of creating one"`
	Title    string   `long:"title" description:"Headline"`
	Summary  string   `long:"summary" description:"Summary (drafted from the content when empty)"`
	Content  string   `long:"content" description:"Article body, HTML allowed"`
	Category string   `long:"category" description:"Category slug"`
	Author   string   `long:"author" description:"Byline"`
	Image    string   `long:"image" description:"Lead image URL"`
	Tags     []string `long:"tag" description:"Tag (repeatable)"`
	Featured bool     `long:"featured" description:"Mark as featured"`
	Live     bool     `long:"live" description:"Start live coverage"`
	EndLive  bool     `long:"end-live" description:"End live coverage"`
	Draft    bool     `long:"draft" description:"Keep unpublished"`

	Update        string `long:"update" description:"Post a live update after saving"`
	UpdateHeading string `long:"update-heading" description:"Heading of the live update"`
	SocialLink    string `long:"social-link" description:"Social post embedded in the live update"`

	app *app
}

func (c *publishCommand) Execute([]string) error {
	if c.Live && c.EndLive {
		return errors.New("--live and --end-live are exclusive")
	}
	svc, err := c.app.openServices()
	if err != nil {
		return err
	}
	defer svc.close(c.app.logger)

	var session *editor.Session
	if c.ID > 0 {
		a, err := svc.articles.Get(c.app.ctx, c.ID)
		if err != nil {
			return fmt.Errorf("article %d: %w", c.ID, err)
		}
		session = editor.Resume(svc.articles, svc.liveUpdates, c.app.logger, a)
	} else {
		session = editor.NewSession(svc.articles, svc.liveUpdates, c.app.logger)
	}

	if err := session.Edit(c.apply); err != nil {
		return err
	}
	if err := session.Save(c.app.ctx); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	draft := session.Draft()
	fmt.Fprintf(c.app.out, "article %d saved (%s)\n", session.ArticleID(), draft.Status)

	if c.Update == "" {
		return nil
	}
	u, err := session.AddLiveUpdate(c.app.ctx, editor.LiveUpdateInput{
		Heading:    c.UpdateHeading,
		Content:    c.Update,
		SocialLink: c.SocialLink,
	})
	if err != nil {
		return fmt.Errorf("live update: %w", err)
	}
	fmt.Fprintf(c.app.out, "live update %d posted: %s\n", u.ID, u.Heading)
	return nil
}

// apply copies the flags that were given onto the draft.
func (c *publishCommand) apply(d *editor.Draft) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&d.Title, c.Title)
	set(&d.Summary, c.Summary)
	set(&d.Content, c.Content)
	set(&d.Category, c.Category)
	set(&d.Author, c.Author)
	set(&d.ImageURL, c.Image)
	if len(c.Tags) > 0 {
		d.Tags = c.Tags
	}
	if c.Featured {
		d.Featured = true
	}
	switch {
	case c.Live:
		d.IsLive = true
	case c.EndLive:
		d.IsLive = false
	}
	if c.Draft {
		d.Status = string(entity.StatusDraft)
	} else if c.ID == 0 {
		d.Status = string(entity.StatusPublished)
	}
}
