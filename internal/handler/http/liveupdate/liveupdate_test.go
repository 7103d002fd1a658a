package liveupdate_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	hliveupdate "newshub/internal/handler/http/liveupdate"
	"newshub/internal/infra/adapter/persistence/memory"
	luUC "newshub/internal/usecase/liveupdate"
)

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Seed(memory.DefaultFixture()))
	svc := &luUC.Service{
		Repo:     store.LiveUpdates(),
		Articles: store.Articles(),
		Now:      func() time.Time { return fixedNow },
	}
	mux := http.NewServeMux()
	hliveupdate.Register(mux, svc)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, r))
	return rr
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var dtos []hliveupdate.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dtos), rr.Body.String())
	ids := make([]int64, 0, len(dtos))
	for _, d := range dtos {
		ids = append(ids, d.ID)
	}
	return ids
}

/* ───────── 一覧 ───────── */

func TestList(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   []int64
	}{
		{name: "per article newest first", path: "/articles/2/live-updates", status: http.StatusOK, want: []int64{1, 3, 2}},
		{name: "per article limited", path: "/articles/4/live-updates?limit=2", status: http.StatusOK, want: []int64{6, 5}},
		{name: "article without updates", path: "/articles/1/live-updates", status: http.StatusOK, want: []int64{}},
		{name: "global feed", path: "/live-updates", status: http.StatusOK, want: []int64{1, 3, 2, 6, 5, 4}},
		{name: "bad article id", path: "/articles/x/live-updates", status: http.StatusBadRequest},
		{name: "bad limit", path: "/live-updates?limit=-3", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(newMux(t), http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.want, decodeList(t, rr))
			}
		})
	}
}

func TestList_SocialLinkIsNullable(t *testing.T) {
	rr := do(newMux(t), http.MethodGet, "/articles/2/live-updates", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw, 3)
	assert.Contains(t, raw[0], "social_link")
	assert.Nil(t, raw[0]["social_link"])
	assert.Equal(t, "https://x.com/newshub/status/1", raw[2]["social_link"])
}

/* ───────── 作成 ───────── */

func TestCreate(t *testing.T) {
	mux := newMux(t)

	rr := do(mux, http.MethodPost, "/articles/2/live-updates",
		`{"content":"Second seat declared.","social_link":"https://example.com/blog"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var dto hliveupdate.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, int64(7), dto.ID)
	assert.Equal(t, entity.DefaultLiveUpdateHeading, dto.Heading)
	assert.Nil(t, dto.SocialLink)
	assert.True(t, fixedNow.Equal(dto.Timestamp))

	assert.Equal(t, []int64{7, 1, 3, 2}, decodeList(t, do(mux, http.MethodGet, "/articles/2/live-updates", "")))
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "missing article", path: "/articles/999/live-updates", body: `{"content":"x"}`, status: http.StatusNotFound},
		{name: "empty content", path: "/articles/2/live-updates", body: `{"content":"  "}`, status: http.StatusBadRequest},
		{name: "bad body", path: "/articles/2/live-updates", body: `[]`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(newMux(t), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestDemo_RotatesContent(t *testing.T) {
	mux := newMux(t)

	first := do(mux, http.MethodPost, "/articles/4/live-updates/demo", "")
	second := do(mux, http.MethodPost, "/articles/4/live-updates/demo", "")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b hliveupdate.DTO
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, luUC.DemoHeading, a.Heading)
	assert.NotEqual(t, a.Content, b.Content)
}

/* ───────── 編集・削除 ───────── */

func TestUpdate_KeepsTimestamp(t *testing.T) {
	mux := newMux(t)

	rr := do(mux, http.MethodPut, "/live-updates/2", `{"heading":"Exit poll (revised)","social_link":""}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var dto hliveupdate.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "Exit poll (revised)", dto.Heading)
	assert.Nil(t, dto.SocialLink)
	assert.Equal(t, time.Date(2025, 3, 12, 21, 0, 0, 0, time.UTC), dto.Timestamp.UTC())
}

func TestGetDelete(t *testing.T) {
	mux := newMux(t)

	assert.Equal(t, http.StatusOK, do(mux, http.MethodGet, "/live-updates/4", "").Code)
	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/live-updates/4", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodGet, "/live-updates/4", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodDelete, "/live-updates/4", "").Code)
}
