// Package editor drives the article editing workflow for a single article:
// create on first save, partial updates afterwards, live updates once the
// article exists and a terminal delete.
//
//	NEW ─save→ SAVING ─ok→ EDITING ─edit→ DIRTY ─save→ SAVING ─ok→ EDITING
//	any ─delete→ DELETED
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"newshub/internal/domain/entity"
	"newshub/internal/usecase/article"
	"newshub/internal/usecase/liveupdate"
)

type State int

const (
	StateNew State = iota
	StateSaving
	StateEditing
	StateDirty
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSaving:
		return "SAVING"
	case StateEditing:
		return "EDITING"
	case StateDirty:
		return "DIRTY"
	case StateDeleted:
		return "DELETED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ArticleStore persists articles. *article.Service satisfies it.
type ArticleStore interface {
	Create(ctx context.Context, in article.CreateInput) (*entity.Article, error)
	Update(ctx context.Context, id int64, in article.UpdateInput) (*entity.Article, error)
	Delete(ctx context.Context, id int64) error
}

// LiveUpdateAdder posts live updates. *liveupdate.Service satisfies it.
type LiveUpdateAdder interface {
	Create(ctx context.Context, in liveupdate.CreateInput) (*entity.LiveUpdate, error)
}

// Draft is the locally edited form of an article.
type Draft struct {
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

func draftOf(a *entity.Article) Draft {
	return Draft{
		Title:    a.Title,
		Summary:  a.Summary,
		Content:  a.Content,
		Category: a.Category,
		Author:   a.Author,
		ImageURL: a.ImageURL,
		Featured: a.Featured,
		IsLive:   a.IsLive,
		Tags:     slices.Clone(a.Tags),
		Status:   string(a.Status),
	}
}

func (d Draft) clone() Draft {
	d.Tags = slices.Clone(d.Tags)
	return d
}

func (d Draft) equal(o Draft) bool {
	_, changed := d.changes(o)
	return !changed
}

// changes returns an update carrying only the fields that differ from base.
func (d Draft) changes(base Draft) (article.UpdateInput, bool) {
	var in article.UpdateInput
	changed := false
	setString := func(dst **string, cur, old string) {
		if cur != old {
			v := cur
			*dst = &v
			changed = true
		}
	}
	setBool := func(dst **bool, cur, old bool) {
		if cur != old {
			v := cur
			*dst = &v
			changed = true
		}
	}
	setString(&in.Title, d.Title, base.Title)
	setString(&in.Summary, d.Summary, base.Summary)
	setString(&in.Content, d.Content, base.Content)
	setString(&in.Category, d.Category, base.Category)
	setString(&in.Author, d.Author, base.Author)
	setString(&in.ImageURL, d.ImageURL, base.ImageURL)
	setString(&in.Status, d.Status, base.Status)
	setBool(&in.Featured, d.Featured, base.Featured)
	setBool(&in.IsLive, d.IsLive, base.IsLive)
	if !slices.Equal(d.Tags, base.Tags) {
		tags := slices.Clone(d.Tags)
		in.Tags = &tags
		changed = true
	}
	return in, changed
}

// Session is safe for concurrent use. Store calls run without the lock held;
// edits and other operations are rejected while a save is in flight.
type Session struct {
	store  ArticleStore
	adder  LiveUpdateAdder
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	id        int64
	draft     Draft
	persisted Draft
}

// NewSession starts an editor for an article that does not exist yet.
func NewSession(store ArticleStore, adder LiveUpdateAdder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, adder: adder, logger: logger, state: StateNew}
}

// Resume starts an editor for an already stored article.
func Resume(store ArticleStore, adder LiveUpdateAdder, logger *slog.Logger, a *entity.Article) *Session {
	s := NewSession(store, adder, logger)
	s.state = StateEditing
	s.id = a.ID
	s.persisted = draftOf(a)
	s.draft = s.persisted.clone()
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ArticleID is zero until the first successful save.
func (s *Session) ArticleID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Draft returns a copy of the local edits.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

func (s *Session) precondition(op string) error {
	switch s.state {
	case StateDeleted:
		return &entity.PreconditionError{Op: op, Reason: "article was deleted"}
	case StateSaving:
		return &entity.PreconditionError{Op: op, Reason: "save in progress"}
	}
	return nil
}

// Edit applies fn to the local draft. An editing session whose draft now
// differs from the stored article becomes DIRTY; reverting every change
// returns it to EDITING.
func (s *Session) Edit(fn func(*Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.precondition("edit"); err != nil {
		return err
	}
	fn(&s.draft)

	switch s.state {
	case StateEditing, StateDirty:
		if s.draft.equal(s.persisted) {
			s.state = StateEditing
		} else {
			s.state = StateDirty
		}
	}
	return nil
}

// Save persists the draft. A failed save restores the prior state and keeps
// the local edits.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.precondition("save"); err != nil {
		s.mu.Unlock()
		return err
	}
	prior := s.state
	if prior == StateEditing {
		s.mu.Unlock()
		return nil
	}
	draft := s.draft.clone()
	var update article.UpdateInput
	if prior == StateNew {
		if err := validateNew(draft); err != nil {
			s.mu.Unlock()
			return err
		}
	} else {
		var changed bool
		update, changed = draft.changes(s.persisted)
		if !changed {
			s.state = StateEditing
			s.mu.Unlock()
			return nil
		}
	}
	id := s.id
	s.state = StateSaving
	s.mu.Unlock()

	var (
		saved *entity.Article
		err   error
	)
	if prior == StateNew {
		saved, err = s.store.Create(ctx, article.CreateInput{
			Title:    draft.Title,
			Summary:  draft.Summary,
			Content:  draft.Content,
			Category: draft.Category,
			Author:   draft.Author,
			ImageURL: draft.ImageURL,
			Featured: draft.Featured,
			IsLive:   draft.IsLive,
			Tags:     draft.Tags,
			Status:   draft.Status,
		})
	} else {
		saved, err = s.store.Update(ctx, id, update)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prior
		s.logger.Warn("article save failed",
			slog.Int64("article_id", id),
			slog.String("state", prior.String()),
			slog.Any("error", err))
		return err
	}
	s.id = saved.ID
	s.persisted = draftOf(saved)
	s.draft = s.persisted.clone()
	s.state = StateEditing
	return nil
}

func validateNew(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &entity.ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &entity.ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}

// LiveUpdateInput is a live update posted from the editor.
type LiveUpdateInput struct {
	Heading    string
	Content    string
	SocialLink string
}

// AddLiveUpdate posts a live update to the saved article.
func (s *Session) AddLiveUpdate(ctx context.Context, in LiveUpdateInput) (*entity.LiveUpdate, error) {
	s.mu.Lock()
	if err := s.precondition("add live update"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.state == StateNew {
		s.mu.Unlock()
		return nil, &entity.PreconditionError{Op: "add live update", Reason: "save the article first"}
	}
	id := s.id
	s.mu.Unlock()

	return s.adder.Create(ctx, liveupdate.CreateInput{
		ArticleID:  id,
		Heading:    in.Heading,
		Content:    in.Content,
		SocialLink: in.SocialLink,
	})
}

// Delete removes the stored article. A session that never saved just ends.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	if err := s.precondition("delete"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state == StateNew {
		s.state = StateDeleted
		s.mu.Unlock()
		return nil
	}
	id := s.id
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateDeleted
	s.mu.Unlock()
	s.logger.Info("article deleted from editor", slog.Int64("article_id", id))
	return nil
}
