package liveupdate_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/adapter/persistence/memory"
	"newshub/internal/observability/metrics"
	"newshub/internal/repository"
	luUC "newshub/internal/usecase/liveupdate"
)

var fixedNow = time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*luUC.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Seed(memory.DefaultFixture()))
	return &luUC.Service{
		Repo:     store.LiveUpdates(),
		Articles: store.Articles(),
		Now:      func() time.Time { return fixedNow },
	}, store
}

func ptr[T any](v T) *T { return &v }

/* ───────── Create ───────── */

func TestService_Create(t *testing.T) {
	svc, _ := newService(t)

	got, err := svc.Create(context.Background(), luUC.CreateInput{
		ArticleID:  2,
		Content:    "  Second seat declared.  ",
		SocialLink: "https://twitter.com/newshub/status/9",
	})
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, entity.DefaultLiveUpdateHeading, got.Heading)
	assert.Equal(t, "Second seat declared.", got.Content)
	require.NotNil(t, got.SocialLink)
	assert.Equal(t, "https://twitter.com/newshub/status/9", *got.SocialLink)
	assert.Equal(t, fixedNow, got.Timestamp)

	feed, err := svc.List(context.Background(), ptr(int64(2)), 0)
	require.NoError(t, err)
	assert.Equal(t, got.ID, feed[0].ID, "newest first")
}

func TestService_Create_CheckOrder(t *testing.T) {
	tests := []struct {
		name    string
		in      luUC.CreateInput
		wantErr error
	}{
		// 未保存の記事は内容より先に前提条件エラー
		{name: "unsaved article wins over empty content", in: luUC.CreateInput{}, wantErr: entity.ErrPrecondition},
		{name: "missing article wins over empty content", in: luUC.CreateInput{ArticleID: 404}, wantErr: entity.ErrNotFound},
		{name: "empty content", in: luUC.CreateInput{ArticleID: 2, Content: "   "}, wantErr: entity.ErrValidationFailed},
		{name: "negative id", in: luUC.CreateInput{ArticleID: -1, Content: "x"}, wantErr: entity.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			_, err := svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)

			all, lerr := store.LiveUpdates().List(context.Background(), repository.LiveUpdateFilter{Limit: 1000})
			require.NoError(t, lerr)
			assert.Len(t, all, 6, "nothing created")
		})
	}
}

func TestService_Create_DropsInvalidSocialLink(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{name: "not social", link: "https://example.com/post"},
		{name: "not a url", link: "twitter"},
		{name: "javascript scheme", link: "javascript:alert(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			got, err := svc.Create(context.Background(), luUC.CreateInput{ArticleID: 4, Content: "Full time", SocialLink: tt.link})
			require.NoError(t, err)
			assert.Nil(t, got.SocialLink)
		})
	}
}

/* ───────── List / Update / Delete ───────── */

func TestService_List_Limit(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID, "global feed newest first")

	assert.Equal(t, luUC.DefaultListLimit, luUC.ClampLimit(0))
	assert.Equal(t, luUC.MaxListLimit, luUC.ClampLimit(1000))
	assert.Equal(t, 7, luUC.ClampLimit(7))

	_, err = svc.List(ctx, ptr(int64(-3)), 5)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_Update_KeepsTimestamp(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	before, err := svc.Get(ctx, 4)
	require.NoError(t, err)

	got, err := svc.Update(ctx, 4, luUC.UpdateInput{Heading: ptr(""), Content: ptr("Kick-off delayed")})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultLiveUpdateHeading, got.Heading)
	assert.Equal(t, "Kick-off delayed", got.Content)
	assert.Equal(t, before.Timestamp, got.Timestamp)

	_, err = svc.Update(ctx, 4, luUC.UpdateInput{Content: ptr("")})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	got, err = svc.Update(ctx, 5, luUC.UpdateInput{SocialLink: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, got.SocialLink)

	_, err = svc.Update(ctx, 77, luUC.UpdateInput{})
	assert.ErrorIs(t, err, luUC.ErrLiveUpdateNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 3))
	_, err := svc.Get(ctx, 3)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 0), entity.ErrInvalidInput)
}

/* ───────── GenerateDemo ───────── */

func TestService_GenerateDemo(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.LiveUpdatesCreatedTotal.WithLabelValues(luUC.OriginDemo))

	first, err := svc.GenerateDemo(ctx, 2)
	require.NoError(t, err)
	second, err := svc.GenerateDemo(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, luUC.DemoHeading, first.Heading)
	assert.Equal(t, "Breaking: New developments in ongoing story...", first.Content)
	assert.Equal(t, "Updated: Officials confirm latest information...", second.Content)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.LiveUpdatesCreatedTotal.WithLabelValues(luUC.OriginDemo)))

	_, err = svc.GenerateDemo(ctx, 404)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
