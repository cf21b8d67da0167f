package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/gateway/handler"
	contentrepo "newsdesk/internal/gateway/repository/content"
	"newsdesk/internal/gateway/service/news"
	"newsdesk/internal/generation"
	"newsdesk/internal/ui"
)

const story = "sample story text of sixty characters about a city festival."

type harness struct {
	server string
	out    string
	store  *contentrepo.MemoryStore
}

func newHarness(t *testing.T) harness {
	t.Helper()
	store := contentrepo.NewMemoryStore()
	svc := news.New(news.Deps{
		Store:     store,
		Generator: generation.NewMockGenerator(7),
		NewID:     func() string { return "n1" },
	})
	mux := http.NewServeMux()
	handler.New(svc, nil).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return harness{server: srv.URL, out: t.TempDir(), store: store}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCmd(Env{Now: func() time.Time { return time.UnixMilli(1714557600000) }})
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", "", "--server", h.server, "--out", h.out}, args...))
	err := root.Execute()
	return buf.String(), err
}

func (h harness) surface(t *testing.T) ui.Surface {
	t.Helper()
	s, err := workspace{dir: h.out}.load()
	require.NoError(t, err)
	return s
}

// buttonFor finds the element whose action matches url or handler.
func buttonFor(t *testing.T, s ui.Surface, target string) string {
	t.Helper()
	var id string
	s.Walk(func(n ui.Node) bool {
		if n.Action != nil && (n.Action.URL == target || n.Action.Handler == target) && n.Type == ui.KindButton {
			id = n.ID
			return false
		}
		return true
	})
	require.NotEmpty(t, id, "no button for %s", target)
	return id
}

func radioWithValue(t *testing.T, s ui.Surface, name, value string) string {
	t.Helper()
	var id string
	s.Walk(func(n ui.Node) bool {
		if n.Type == ui.KindRadio && n.RadioName() == name && n.StringValue() == value {
			id = n.ID
			return false
		}
		return true
	})
	require.NotEmpty(t, id)
	return id
}

func TestGenerateWritesSurface(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "generate", "--input", story)
	require.NoError(t, err)
	assert.Contains(t, out, "news: n1")

	s := h.surface(t)
	assert.Equal(t, "n1", s.NewsID())
	page, err := os.ReadFile(filepath.Join(h.out, surfaceHTML))
	require.NoError(t, err)
	assert.Contains(t, string(page), `class="a2ui-tabs"`)

	out, err = h.run(t, "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "news n1"))
	assert.Contains(t, out, "Tabs")
	assert.Contains(t, out, "-> "+ui.EndpointApprove)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "generate", "--input", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 30 characters")

	_, err = h.run(t, "generate", "--type", "url", "--input", "not a url at all")
	require.Error(t, err)

	_, err = h.run(t, "generate", "--input", story, "--file", "x")
	assert.EqualError(t, err, "use either --input or --file")
}

func TestClickEditsAndApproves(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "generate", "--input", story)
	require.NoError(t, err)
	s := h.surface(t)

	out, err := h.run(t, "click", "--set", ui.ScriptEditorID+"=ఒకటి రెండు మూడు", buttonFor(t, s, ui.EndpointUpdateScript))
	require.NoError(t, err)
	assert.Contains(t, out, "[success]")
	rec, err := h.store.Get(t.Context(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "ఒకటి రెండు మూడు", rec.Bundle.ScriptText())

	textRadio := radioWithValue(t, s, ui.ExportFormatGroup, "text")
	out, err = h.run(t, "click", textRadio, buttonFor(t, s, ui.EndpointApprove))
	require.NoError(t, err)
	exported := filepath.Join(h.out, "telugu-news-n1.txt")
	assert.Contains(t, out, "wrote: "+exported)
	body, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ఒకటి రెండు మూడు")
}

func TestClickRegenerateReplacesSurface(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "generate", "--input", story)
	require.NoError(t, err)
	before := h.surface(t)

	_, err = h.run(t, "click", buttonFor(t, before, ui.EndpointRegenerate))
	require.NoError(t, err)
	after := h.surface(t)
	assert.Greater(t, after.DataModel.Revision, before.DataModel.Revision)
}

func TestClickThumbnail(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "generate", "--input", story)
	require.NoError(t, err)
	s := h.surface(t)

	_, err = h.run(t, "click", buttonFor(t, s, ui.HandlerDownloadThumbnail))
	assert.Error(t, err)

	out, err := h.run(t, "click",
		"--set", ui.ThumbnailBgColorID+"=#112233",
		buttonFor(t, s, ui.HandlerGenerateThumbnail),
		buttonFor(t, s, ui.HandlerDownloadThumbnail),
	)
	require.NoError(t, err)
	png := filepath.Join(h.out, "telugu-news-thumbnail-1714557600000.png")
	assert.Contains(t, out, "wrote: "+png)
	_, err = os.Stat(png)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(h.out, surfaceHTML))
	require.NoError(t, err)
	assert.Contains(t, string(page), `id="thumbnail-canvas"`)
}

func TestClickWithoutSurface(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "click", "anything")
	assert.ErrorIs(t, err, errNoSurface)

	_, err = h.run(t, "show")
	assert.ErrorIs(t, err, errNoSurface)
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"a=1", " b =x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, []edit{{"a", "1"}, {"b", "x=y"}, {"c", ""}}, got)

	_, err = parseSets([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=v"})
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, SaveConfig(path, Config{Server: "http://gw:9000", OutputDir: "/tmp/x", Timeout: "5s"}))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gw:9000", cfg.Server)
	assert.Equal(t, "/tmp/x", cfg.OutputDir)
	d, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	require.NoError(t, os.WriteFile(path, []byte("server = \"\"\ntimeout = \"soon\"\n"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server = [unclosed"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var buf bytes.Buffer
	root := NewRootCmd(Env{})
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", path, "--server", "http://other:1", "config", "--write"})
	require.NoError(t, root.Execute())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", cfg.Server)

	buf.Reset()
	root = NewRootCmd(Env{})
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", path, "config"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `server = 'http://other:1'`)
}
