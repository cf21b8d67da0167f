package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/content"
	"newsdesk/internal/ui"
)

type fakeForm struct {
	values  map[string]string
	order   []string
	checked map[string]string
}

func (f fakeForm) Values(prefix string) []string {
	var out []string
	for _, id := range f.order {
		if strings.HasPrefix(id, prefix) {
			out = append(out, f.values[id])
		}
	}
	return out
}

func (f fakeForm) Value(id string) (string, bool) {
	v, ok := f.values[id]
	return v, ok
}

func (f fakeForm) CheckedValue(name string) (string, bool) {
	v, ok := f.checked[name]
	return v, ok
}

type fakeRenderer struct{ got []ui.Surface }

func (r *fakeRenderer) RenderSurface(s ui.Surface) error {
	r.got = append(r.got, s)
	return nil
}

type fakePreview struct{ png []byte }

func (p *fakePreview) ShowPreview(png []byte) error {
	p.png = png
	return nil
}

type recorded struct {
	url  string
	body map[string]any
}

func replying(status int, reply any, calls *[]recorded) TransportFunc {
	return func(_ context.Context, url string, body map[string]any) (int, []byte, error) {
		*calls = append(*calls, recorded{url: url, body: body})
		raw, err := json.Marshal(reply)
		return status, raw, err
	}
}

func form() fakeForm {
	return fakeForm{
		values: map[string]string{
			"headline-0":            "one",
			"headline-1":            "two",
			ui.ScriptEditorID:       "edited script",
			ui.ThumbnailBgColorID:   "#000000",
			ui.ThumbnailHeadlineID:  "Thumb",
			ui.ThumbnailTextColorID: "#ffffff",
		},
		order:   []string{"headline-0", "headline-1", ui.ScriptEditorID},
		checked: map[string]string{ui.ExportFormatGroup: "text"},
	}
}

func TestPostHarvestsByEndpoint(t *testing.T) {
	var calls []recorded
	d := New(Options{
		Transport: replying(200, ui.AckPayload{Success: true, Message: "ok"}, &calls),
		Form:      form(),
	})
	ctx := t.Context()

	tmpl := map[string]any{"newsId": "n1"}
	stale := map[string]any{"newsId": "n1", "headlines": []string{"stale"}, "scriptText": "old"}
	require.NoError(t, d.Dispatch(ctx, *ui.PostAction(ui.EndpointUpdateHeadlines, stale)))
	require.NoError(t, d.Dispatch(ctx, *ui.PostAction(ui.EndpointUpdateScript, stale)))
	require.NoError(t, d.Dispatch(ctx, *ui.PostAction(ui.EndpointSave, tmpl)))

	require.Len(t, calls, 3)
	assert.Equal(t, []string{"one", "two"}, calls[0].body["headlines"])
	assert.Equal(t, "edited script", calls[1].body["scriptText"])
	assert.Equal(t, map[string]any{"newsId": "n1"}, calls[2].body)
	assert.Equal(t, []string{"stale"}, stale["headlines"], "template must not be mutated")
	assert.Equal(t, map[string]any{"newsId": "n1"}, tmpl)

	last, ok := d.Notices().Last()
	require.True(t, ok)
	assert.Equal(t, LevelSuccess, last.Level)
	assert.Equal(t, "ok", last.Message)
}

func TestSurfaceReplyReplacesRender(t *testing.T) {
	var calls []recorded
	r := &fakeRenderer{}
	s := ui.NewSurface("main", []ui.Node{ui.Text("a", "A", "")}, &ui.DataModel{NewsID: "n1"})
	d := New(Options{Transport: replying(200, s, &calls), Renderer: r})

	require.NoError(t, d.Dispatch(t.Context(), *ui.PostAction(ui.EndpointRegenerate, map[string]any{"newsId": "n1", "section": "script"})))
	require.Len(t, r.got, 1)
	assert.Equal(t, "n1", r.got[0].NewsID())
}

func TestErrorReplyKeepsSurface(t *testing.T) {
	var calls []recorded
	r := &fakeRenderer{}
	d := New(Options{Transport: replying(404, ui.ErrorPayload{Error: "News not found"}, &calls), Renderer: r})

	err := d.Dispatch(t.Context(), *ui.PostAction(ui.EndpointRegenerate, map[string]any{"newsId": "nope"}))
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 404, remote.Status)
	assert.Empty(t, r.got)

	last, _ := d.Notices().Last()
	assert.Equal(t, LevelError, last.Level)
	assert.Equal(t, "News not found", last.Message)
}

func TestTransportFailureNotifies(t *testing.T) {
	d := New(Options{Transport: TransportFunc(func(context.Context, string, map[string]any) (int, []byte, error) {
		return 0, nil, errors.New("connection refused")
	})})
	assert.Error(t, d.Dispatch(t.Context(), *ui.PostAction(ui.EndpointSave, nil)))
	last, _ := d.Notices().Last()
	assert.Equal(t, msgActionFailed, last.Message)

	d = New(Options{Transport: TransportFunc(func(context.Context, string, map[string]any) (int, []byte, error) {
		return 200, []byte(`{"unexpected":true}`), nil
	})})
	assert.ErrorIs(t, d.Dispatch(t.Context(), *ui.PostAction(ui.EndpointSave, nil)), ui.ErrUnrecognizedResponse)
}

func TestApproveExportsByFormat(t *testing.T) {
	data := content.ExportData{
		NewsID:             "n1",
		GeneratedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		SelectedHeadline:   "two",
		AllHeadlines:       []string{"one", "two"},
		Script:             content.Script{Text: "script <b>body</b>"},
		Hashtags:           []string{"#a", "#b"},
		ThumbnailChecklist: []content.ChecklistItem{{ID: "bg", Label: "Background", Checked: true}, {ID: "logo", Label: "Logo"}},
		OriginalInput:      "input",
		InputType:          content.InputNotes,
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	for _, tc := range []struct {
		format string
		file   string
		want   []string
	}{
		{"json", "telugu-news-n1.json", []string{"telugu-news-n1.json"}},
		{"text", "telugu-news-n1.txt", []string{"telugu-news-n1.txt"}},
		{"pdf", "telugu-news-n1.pdf", []string{"telugu-news-n1.html", "telugu-news-n1.print.txt"}},
	} {
		t.Run(tc.format, func(t *testing.T) {
			var calls []recorded
			sink := NewMemorySink()
			reply := ui.ExportPayload{Success: true, ExportData: raw, Format: tc.format, Message: "approved", DownloadFileName: tc.file}
			d := New(Options{Transport: replying(200, reply, &calls), Sink: sink, Form: fakeForm{checked: map[string]string{ui.ExportFormatGroup: tc.format}}})

			require.NoError(t, d.Dispatch(t.Context(), *ui.PostAction(ui.EndpointApprove, map[string]any{"newsId": "n1", "format": "json"})))
			assert.Equal(t, tc.format, calls[0].body["format"])
			assert.Equal(t, tc.want, d.Written())
			for _, name := range tc.want {
				_, ok := sink.Get(name)
				assert.True(t, ok, name)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	data := content.ExportData{
		NewsID:             "n1",
		GeneratedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		SelectedHeadline:   "two",
		AllHeadlines:       []string{"one", "two"},
		Script:             content.Script{Text: "a <b> c"},
		Hashtags:           []string{"#a", "#b"},
		ThumbnailChecklist: []content.ChecklistItem{{Label: "Background", Checked: true}, {Label: "Logo"}},
		OriginalInput:      "input",
		InputType:          content.InputNotes,
	}
	sink := NewMemorySink()

	_, err := JSONExporter{}.Export(data, "x.json", sink)
	require.NoError(t, err)
	js, _ := sink.Get("x.json")
	assert.Contains(t, string(js), "\n  \"newsId\": \"n1\"")
	assert.Contains(t, string(js), "a <b> c")

	_, err = TextExporter{}.Export(data, "x.json", sink)
	require.NoError(t, err)
	txt, _ := sink.Get("x.txt")
	for _, want := range []string{
		"Generated At: 2024-05-01T10:00:00Z",
		"Selected Headline:\ntwo",
		"All Headlines:\n1. one\n2. two\n",
		"#a #b",
		"✓ 1. Background\n☐ 2. Logo",
		"ORIGINAL INPUT\n" + rule + "\n\ninput\n",
	} {
		assert.Contains(t, string(txt), want)
	}

	paths, err := PrintExporter{}.Export(data, "x.pdf", sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.html", "x.print.txt"}, paths)
	page, _ := sink.Get("x.html")
	assert.Contains(t, string(page), "a &lt;b&gt; c")
	assert.Contains(t, string(page), "<li>✓ Background</li>")
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	path, err := FileSink{Dir: dir}.Write("../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, dir+"/escape.txt", path)

	_, err = FileSink{Dir: dir}.Write("  ", nil)
	assert.Error(t, err)
}

func TestDuplicateInFlightIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var mu sync.Mutex
	posts := 0
	d := New(Options{Transport: TransportFunc(func(context.Context, string, map[string]any) (int, []byte, error) {
		mu.Lock()
		posts++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return 200, []byte(`{"success":true,"message":"ok"}`), nil
	})})
	a := *ui.PostAction(ui.EndpointSave, map[string]any{"newsId": "n1"})

	done := make(chan error, 1)
	go func() { done <- d.Dispatch(context.Background(), a) }()
	<-started

	assert.ErrorIs(t, d.Dispatch(t.Context(), a), ErrInFlight)
	close(release)
	require.NoError(t, <-done)

	require.NoError(t, d.Dispatch(t.Context(), a))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, posts)
}

func TestCustomHandlers(t *testing.T) {
	sink := NewMemorySink()
	preview := &fakePreview{}
	d := New(Options{
		Form:    form(),
		Preview: preview,
		Sink:    sink,
		Now:     func() time.Time { return time.UnixMilli(1714557600000) },
	})
	ctx := t.Context()

	err := d.Dispatch(ctx, *ui.CustomAction(ui.HandlerDownloadThumbnail))
	assert.ErrorIs(t, err, ErrNoThumbnail)
	last, _ := d.Notices().Last()
	assert.Equal(t, msgThumbnailMissing, last.Message)

	require.NoError(t, d.Dispatch(ctx, *ui.CustomAction(ui.HandlerGenerateThumbnail)))
	require.NotEmpty(t, preview.png)
	assert.Equal(t, []byte("\x89PNG"), preview.png[:4])

	require.NoError(t, d.Dispatch(ctx, *ui.CustomAction(ui.HandlerDownloadThumbnail)))
	got, ok := sink.Get("telugu-news-thumbnail-1714557600000.png")
	require.True(t, ok)
	assert.Equal(t, preview.png, got)

	assert.NoError(t, d.Dispatch(ctx, *ui.CustomAction("launchRockets")))
	assert.NoError(t, d.Dispatch(ctx, ui.Action{Type: ui.ActionUnknown, URL: "/api/x"}))
}

func TestNoticesAutoDismiss(t *testing.T) {
	n := NewNotices()
	var timers []func()
	var delays []time.Duration
	n.after = func(d time.Duration, f func()) *time.Timer {
		delays = append(delays, d)
		timers = append(timers, f)
		return nil
	}
	var seen []string
	n.Subscribe(func(x Notice) { seen = append(seen, x.Message) })

	n.Show(LevelSuccess, "first")
	n.Show(LevelError, "second")
	assert.Len(t, n.Active(), 2)
	assert.Equal(t, []time.Duration{NoticeTTL, NoticeTTL}, delays)
	assert.Equal(t, []string{"first", "second"}, seen)

	timers[0]()
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
	timers[1]()
	assert.Empty(t, n.Active())
	assert.Len(t, n.History(), 2)
}

func TestHTTPTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/save", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"newsId":"n1"}`, string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", time.Second)
	status, raw, err := tr.Post(t.Context(), ui.EndpointSave, map[string]any{"newsId": "n1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"success":true}`, string(raw))

	assert.Equal(t, srv.URL+"/api/x", tr.resolve("api/x"))
	assert.Equal(t, "https://elsewhere/x", tr.resolve("https://elsewhere/x"))
}
