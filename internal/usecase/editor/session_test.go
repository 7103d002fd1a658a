package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/adapter/persistence/memory"
	"newshub/internal/usecase/article"
	"newshub/internal/usecase/editor"
	"newshub/internal/usecase/liveupdate"
)

/* ───────── stubs ───────── */

type stubStore struct {
	mu        sync.Mutex
	creates   []article.CreateInput
	updates   []article.UpdateInput
	deletes   []int64
	err       error
	block     chan struct{}
	nextID    int64
	persisted *entity.Article
}

func (s *stubStore) Create(ctx context.Context, in article.CreateInput) (*entity.Article, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, in)
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	s.persisted = &entity.Article{
		ID: s.nextID, Title: in.Title, Content: in.Content, Summary: in.Summary,
		Category: in.Category, Author: in.Author, Tags: in.Tags, Status: entity.StatusPublished,
	}
	return s.persisted, nil
}

func (s *stubStore) Update(ctx context.Context, id int64, in article.UpdateInput) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, in)
	if s.err != nil {
		return nil, s.err
	}
	a := *s.persisted
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.Tags != nil {
		a.Tags = *in.Tags
	}
	s.persisted = &a
	return &a, nil
}

func (s *stubStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	return s.err
}

type stubAdder struct {
	calls []liveupdate.CreateInput
}

func (a *stubAdder) Create(ctx context.Context, in liveupdate.CreateInput) (*entity.LiveUpdate, error) {
	a.calls = append(a.calls, in)
	return &entity.LiveUpdate{ID: int64(len(a.calls)), ArticleID: in.ArticleID, Content: in.Content}, nil
}

func saved(t *testing.T, store *stubStore) *editor.Session {
	t.Helper()
	s := editor.NewSession(store, &stubAdder{}, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) {
		d.Title = "Storm warning"
		d.Content = "<p>Winds up to 90mph.</p>"
		d.Tags = []string{"weather"}
	}))
	require.NoError(t, s.Save(context.Background()))
	return s
}

/* ───────── NEW ───────── */

func TestSession_New_SaveValidates(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*editor.Draft)
		field string
	}{
		{name: "missing title", edit: func(d *editor.Draft) { d.Content = "body" }, field: "title"},
		{name: "missing content", edit: func(d *editor.Draft) { d.Title = "t" }, field: "content"},
		{name: "whitespace only", edit: func(d *editor.Draft) { d.Title = " "; d.Content = " " }, field: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			s := editor.NewSession(store, &stubAdder{}, nil)
			require.NoError(t, s.Edit(tt.edit))

			err := s.Save(context.Background())

			var ve *entity.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, store.creates, "no call made")
			assert.Equal(t, editor.StateNew, s.State())
		})
	}
}

func TestSession_New_EditStaysNew(t *testing.T) {
	s := editor.NewSession(&stubStore{}, &stubAdder{}, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "x" }))
	assert.Equal(t, editor.StateNew, s.State())
	assert.Zero(t, s.ArticleID())
}

func TestSession_New_AddLiveUpdateRequiresSave(t *testing.T) {
	adder := &stubAdder{}
	s := editor.NewSession(&stubStore{}, adder, nil)

	_, err := s.AddLiveUpdate(context.Background(), editor.LiveUpdateInput{Content: "x"})

	var pe *entity.PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save the article first", pe.Reason)
	assert.Empty(t, adder.calls)
}

func TestSession_New_SaveFailureKeepsEdits(t *testing.T) {
	store := &stubStore{err: errors.New("db down")}
	s := editor.NewSession(store, &stubAdder{}, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "t"; d.Content = "c" }))

	require.Error(t, s.Save(context.Background()))
	assert.Equal(t, editor.StateNew, s.State())
	assert.Equal(t, "t", s.Draft().Title)
}

/* ───────── EDITING / DIRTY ───────── */

func TestSession_SaveTransitions(t *testing.T) {
	store := &stubStore{}
	s := saved(t, store)
	ctx := context.Background()

	assert.Equal(t, editor.StateEditing, s.State())
	assert.Equal(t, int64(1), s.ArticleID())

	// 変更なしの保存は何もしない
	require.NoError(t, s.Save(ctx))
	assert.Empty(t, store.updates)

	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "Storm warning upgraded" }))
	assert.Equal(t, editor.StateDirty, s.State())

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, editor.StateEditing, s.State())
	require.Len(t, store.updates, 1)

	title := "Storm warning upgraded"
	want := article.UpdateInput{Title: &title}
	if diff := cmp.Diff(want, store.updates[0]); diff != "" {
		t.Errorf("only changed fields are sent (-want +got):\n%s", diff)
	}
}

func TestSession_RevertingEditsReturnsToEditing(t *testing.T) {
	s := saved(t, &stubStore{})

	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Tags = append(d.Tags, "alert") }))
	assert.Equal(t, editor.StateDirty, s.State())

	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Tags = d.Tags[:1] }))
	assert.Equal(t, editor.StateEditing, s.State())
}

func TestSession_Dirty_SaveFailureStaysDirty(t *testing.T) {
	store := &stubStore{}
	s := saved(t, store)
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Content = "<p>new</p>" }))

	store.err = errors.New("timeout")
	require.Error(t, s.Save(context.Background()))
	assert.Equal(t, editor.StateDirty, s.State())
	assert.Equal(t, "<p>new</p>", s.Draft().Content)
	assert.Equal(t, "<p>Winds up to 90mph.</p>", store.persisted.Content, "stored snapshot unchanged")
}

func TestSession_EditRejectedWhileSaving(t *testing.T) {
	store := &stubStore{block: make(chan struct{})}
	s := editor.NewSession(store, &stubAdder{}, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "t"; d.Content = "c" }))

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()

	require.Eventually(t, func() bool { return s.State() == editor.StateSaving }, timeout, tick)
	assert.ErrorIs(t, s.Edit(func(d *editor.Draft) { d.Title = "late" }), entity.ErrPrecondition)
	assert.ErrorIs(t, s.Save(context.Background()), entity.ErrPrecondition)

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, editor.StateEditing, s.State())
	assert.Equal(t, "t", s.Draft().Title)
}

func TestSession_AddLiveUpdate(t *testing.T) {
	adder := &stubAdder{}
	s := editor.NewSession(&stubStore{}, adder, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "t"; d.Content = "c" }))
	require.NoError(t, s.Save(context.Background()))
	require.NoError(t, s.Edit(func(d *editor.Draft) { d.Title = "t2" }))

	u, err := s.AddLiveUpdate(context.Background(), editor.LiveUpdateInput{Heading: "H", Content: "from dirty"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ArticleID)
	require.Len(t, adder.calls, 1)
	assert.Equal(t, "H", adder.calls[0].Heading)
}

/* ───────── DELETED ───────── */

func TestSession_Delete(t *testing.T) {
	store := &stubStore{}
	s := saved(t, store)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx))
	assert.Equal(t, editor.StateDeleted, s.State())
	assert.Equal(t, []int64{1}, store.deletes)

	assert.ErrorIs(t, s.Edit(func(*editor.Draft) {}), entity.ErrPrecondition)
	assert.ErrorIs(t, s.Save(ctx), entity.ErrPrecondition)
	assert.ErrorIs(t, s.Delete(ctx), entity.ErrPrecondition)
	_, err := s.AddLiveUpdate(ctx, editor.LiveUpdateInput{Content: "x"})
	assert.ErrorIs(t, err, entity.ErrPrecondition)
}

func TestSession_DeleteFailureKeepsState(t *testing.T) {
	store := &stubStore{}
	s := saved(t, store)
	store.err = errors.New("db down")

	require.Error(t, s.Delete(context.Background()))
	assert.Equal(t, editor.StateEditing, s.State())
}

func TestSession_DeleteUnsaved(t *testing.T) {
	store := &stubStore{}
	s := editor.NewSession(store, &stubAdder{}, nil)
	require.NoError(t, s.Delete(context.Background()))
	assert.Equal(t, editor.StateDeleted, s.State())
	assert.Empty(t, store.deletes)
}

/* ───────── services ───────── */

func TestSession_WithServices(t *testing.T) {
	mem := memory.New()
	require.NoError(t, mem.Seed(memory.DefaultFixture()))
	articles := article.NewService(mem.Articles(), nil, nil)
	updates := &liveupdate.Service{Repo: mem.LiveUpdates(), Articles: mem.Articles()}
	ctx := context.Background()

	s := editor.NewSession(articles, updates, nil)
	require.NoError(t, s.Edit(func(d *editor.Draft) {
		d.Title = "Bridge closed after collision"
		d.Content = "<p>The bridge is shut in both directions.</p>"
		d.Category = "news"
		d.IsLive = true
	}))
	require.NoError(t, s.Save(ctx))
	id := s.ArticleID()
	assert.NotEmpty(t, s.Draft().Summary, "summary drafted on create")

	_, err := s.AddLiveUpdate(ctx, editor.LiveUpdateInput{Content: "Diversions in place."})
	require.NoError(t, err)

	resumed := editor.Resume(articles, updates, nil, mustGet(t, articles, id))
	require.NoError(t, resumed.Edit(func(d *editor.Draft) { d.IsLive = false }))
	require.NoError(t, resumed.Save(ctx))

	got := mustGet(t, articles, id)
	assert.False(t, got.IsLive)
	assert.Equal(t, "Bridge closed after collision", got.Title)

	require.NoError(t, resumed.Delete(ctx))
	_, err = articles.Get(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func mustGet(t *testing.T, svc *article.Service, id int64) *entity.Article {
	t.Helper()
	a, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)
