package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surfacecache "newsdesk/internal/cache/surface"
	"newsdesk/internal/content"
	"newsdesk/internal/gateway/repository/artifact"
	contentrepo "newsdesk/internal/gateway/repository/content"
	"newsdesk/internal/gateway/repository/draft"
	"newsdesk/internal/gateway/service/surface"
	"newsdesk/internal/generation"
	"newsdesk/internal/platform/apierr"
	"newsdesk/internal/ui"
)

const notes = "A long enough note about a local technology story for the test."

type fixture struct {
	svc       *Service
	store     *contentrepo.MemoryStore
	drafts    *draft.MemoryStore
	artifacts *artifact.MemoryStore
}

func newFixture(t *testing.T, gen generation.Generator) fixture {
	t.Helper()
	if gen == nil {
		gen = generation.NewMockGenerator(1)
	}
	f := fixture{
		store:     contentrepo.NewMemoryStore(),
		drafts:    draft.NewMemoryStore(),
		artifacts: artifact.NewMemoryStore(),
	}
	var n atomic.Int64
	f.svc = New(Deps{
		Store:     f.store,
		Generator: gen,
		Drafts:    f.drafts,
		Artifacts: f.artifacts,
		Surfaces:  surfacecache.New(16, time.Minute),
		Now:       func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
		NewID: func() string {
			return "n" + string(rune('0'+n.Add(1)))
		},
	})
	return f
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	status, _ := apierr.StatusOf(err)
	return status
}

func TestGenerate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, notes, "podcast")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = f.svc.Generate(ctx, "short", "notes")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	s, err := f.svc.Generate(ctx, "  "+notes+"  ", "notes")
	require.NoError(t, err)
	assert.Equal(t, "n1", s.NewsID())
	assert.Equal(t, int64(1), s.DataModel.Revision)

	rec, err := f.store.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, notes, rec.Bundle.OriginalInput)
	assert.Equal(t, content.InputNotes, rec.Bundle.Type)
	assert.Len(t, rec.Bundle.Headlines, 3)
}

func TestGenerateFailureIsInternal(t *testing.T) {
	gen := generation.GeneratorFunc(func(context.Context, string, content.InputType, content.Section) (content.Bundle, error) {
		return content.Bundle{}, errors.New("templates broken")
	})
	f := newFixture(t, gen)
	_, err := f.svc.Generate(context.Background(), notes, "notes")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}

func TestRegenerate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Regenerate(ctx, "missing", "headlines")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, "News not found", err.Error())
	_, code := apierr.StatusOf(err)
	assert.Equal(t, "not_found", code)

	_, err = f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)
	before, _ := f.store.Get(ctx, "n1")

	_, err = f.svc.Regenerate(ctx, "n1", "thumbnail")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	s, err := f.svc.Regenerate(ctx, "n1", "hashtags")
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.DataModel.Revision)

	after, _ := f.store.Get(ctx, "n1")
	assert.Equal(t, before.Bundle.Headlines, after.Bundle.Headlines)
	assert.Equal(t, before.Bundle.Script, after.Bundle.Script)
	assert.Equal(t, before.Bundle.ThumbnailChecklist, after.Bundle.ThumbnailChecklist)
	assert.NotEmpty(t, after.Bundle.Hashtags)
}

func TestRegenerateFailureLeavesBundle(t *testing.T) {
	var calls atomic.Int32
	mock := generation.NewMockGenerator(1)
	gen := generation.GeneratorFunc(func(ctx context.Context, in string, typ content.InputType, sec content.Section) (content.Bundle, error) {
		if calls.Add(1) > 1 {
			return content.Bundle{}, errors.New("down")
		}
		return mock.Generate(ctx, in, typ, sec)
	})
	f := newFixture(t, gen)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	_, err = f.svc.Regenerate(ctx, "n1", "script")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	rec, _ := f.store.Get(ctx, "n1")
	assert.Equal(t, int64(1), rec.Revision)
}

func TestRegenerateSurvivesFirstCallerCancel(t *testing.T) {
	mock := generation.NewMockGenerator(1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var genCanceled atomic.Bool
	gen := generation.GeneratorFunc(func(ctx context.Context, in string, typ content.InputType, sec content.Section) (content.Bundle, error) {
		if sec != "" {
			started <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
				genCanceled.Store(true)
				return content.Bundle{}, ctx.Err()
			}
		}
		return mock.Generate(ctx, in, typ, sec)
	})
	f := newFixture(t, gen)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	firstCtx, cancelFirst := context.WithCancel(ctx)
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.Regenerate(firstCtx, "n1", "hashtags")
		firstErr <- err
	}()
	<-started

	type result struct {
		s   ui.Surface
		err error
	}
	second := make(chan result, 1)
	go func() {
		s, err := f.svc.Regenerate(ctx, "n1", "hashtags")
		second <- result{s, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.Equal(t, int64(2), got.s.DataModel.Revision)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
	}
	assert.False(t, genCanceled.Load(), "shared generation must not see the first caller's cancel")
	rec, err := f.store.Get(ctx, "n1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Bundle.Hashtags)
}

func TestRegenerateTimeoutBoundsSharedWork(t *testing.T) {
	mock := generation.NewMockGenerator(1)
	gen := generation.GeneratorFunc(func(ctx context.Context, in string, typ content.InputType, sec content.Section) (content.Bundle, error) {
		if sec != "" {
			<-ctx.Done()
			return content.Bundle{}, ctx.Err()
		}
		return mock.Generate(ctx, in, typ, sec)
	})
	store := contentrepo.NewMemoryStore()
	svc := New(Deps{
		Store:             store,
		Generator:         gen,
		NewID:             func() string { return "n1" },
		RegenerateTimeout: 20 * time.Millisecond,
	})
	ctx := context.Background()
	_, err := svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	_, err = svc.Regenerate(ctx, "n1", "script")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdateHeadlinesAndScript(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	_, err = f.svc.UpdateHeadlines(ctx, "n1", []string{" ", ""})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	ack, err := f.svc.UpdateHeadlines(ctx, "n1", []string{"one", "two"})
	require.NoError(t, err)
	assert.True(t, ack.Success)

	ack, err = f.svc.UpdateScript(ctx, "n1", "a b c d")
	require.NoError(t, err)
	assert.True(t, ack.Success)

	rec, _ := f.store.Get(ctx, "n1")
	require.Len(t, rec.Bundle.Headlines, 2)
	assert.Equal(t, "one", rec.Bundle.SelectedHeadline())
	assert.Equal(t, 4, rec.Bundle.Script.WordCount)

	_, err = f.svc.UpdateScript(ctx, "missing", "x")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	_, err = f.svc.UpdateScript(ctx, " ", "x")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestSaveArchivesDraft(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	ack, err := f.svc.Save(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", ack.SavedAt)

	list, err := f.svc.Drafts(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].Revision)

	_, err = f.svc.Save(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestApprove(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, "n1", "docx")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	out, err := f.svc.Approve(ctx, "n1", "")
	require.NoError(t, err)
	assert.Equal(t, "json", out.Format)
	assert.Equal(t, "telugu-news-n1.json", out.DownloadFileName)

	var data content.ExportData
	require.NoError(t, json.Unmarshal(out.ExportData, &data))
	assert.Equal(t, "n1", data.NewsID)
	assert.Len(t, data.AllHeadlines, 3)

	out, err = f.svc.Approve(ctx, "n1", "text")
	require.NoError(t, err)
	assert.Equal(t, "telugu-news-n1.txt", out.DownloadFileName)

	stored, err := f.artifacts.Get(ctx, "n1", "telugu-news-n1.json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(stored), `"newsId":"n1"`))
}

func TestExportsAfterApprove(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Exports(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)
	files, err := f.svc.Exports(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = f.svc.Approve(ctx, "n1", "pdf")
	require.NoError(t, err)
	files, err = f.svc.Exports(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []ExportFile{{Name: "telugu-news-n1.json"}}, files)

	raw, err := f.svc.Export(ctx, "n1", "telugu-news-n1.json")
	require.NoError(t, err)
	var data content.ExportData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, "n1", data.NewsID)

	_, err = f.svc.Export(ctx, "n1", "telugu-news-n1.txt")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, "Export not found", err.Error())
	_, err = f.svc.Export(ctx, "n1", " ")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestSelectHeadlineAndToggleChecklist(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)

	_, err = f.svc.SelectHeadline(ctx, "n1", "h9")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	s, err := f.svc.SelectHeadline(ctx, "n1", "h2")
	require.NoError(t, err)
	var checked []string
	s.Walk(func(n ui.Node) bool {
		if n.Type == ui.KindRadio && n.Checked && n.Name == surface.HeadlineSelection {
			checked = append(checked, n.StringValue())
		}
		return true
	})
	assert.Equal(t, []string{"h2"}, checked)

	_, err = f.svc.ToggleChecklist(ctx, "n1", "nope")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = f.svc.ToggleChecklist(ctx, "n1", "bg")
	require.NoError(t, err)
	rec, _ := f.store.Get(ctx, "n1")
	done, total := rec.Bundle.ChecklistProgress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 5, total)
}

func TestWatchPushesFullSurfaces(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.svc.Watch(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = f.svc.Generate(ctx, notes, "notes")
	require.NoError(t, err)
	ch, err := f.svc.Watch(ctx, "n1")
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, int64(1), first.DataModel.Revision)

	_, err = f.svc.UpdateScript(ctx, "n1", "new words")
	require.NoError(t, err)
	select {
	case next := <-ch:
		assert.Equal(t, int64(2), next.DataModel.Revision)
		editor, ok := next.Find(surface.ScriptEditorID)
		require.True(t, ok)
		assert.Equal(t, "new words", editor.StringValue())
	case <-time.After(time.Second):
		t.Fatal("no surface pushed")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
