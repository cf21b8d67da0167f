package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"newsdesk/internal/content"
)

// Sink receives downloaded files.
type Sink interface {
	Write(name string, data []byte) (string, error)
}

// FileSink writes files into Dir, creating it on first use.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(name string, data []byte) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("file name is required")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// MemorySink keeps written files in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) Write(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[name]
	return b, ok
}

func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for k := range s.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Exporter turns approved export data into downloadable files.
type Exporter interface {
	Export(data content.ExportData, fileName string, sink Sink) ([]string, error)
}

// Exporters returns the exporter for each format.
func Exporters() map[content.ExportFormat]Exporter {
	return map[content.ExportFormat]Exporter{
		content.FormatJSON: JSONExporter{},
		content.FormatText: TextExporter{},
		content.FormatPDF:  PrintExporter{},
	}
}

type JSONExporter struct{}

func (JSONExporter) Export(data content.ExportData, fileName string, sink Sink) ([]string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	if fileName == "" {
		fileName = "telugu-news-export.json"
	}
	path, err := sink.Write(fileName, bytes.TrimRight(buf.Bytes(), "\n"))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

const rule = "================================================"

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"mark": checkMark,
	"rule": func() string { return rule },
}

func checkMark(checked bool) string {
	if checked {
		return "✓"
	}
	return "☐"
}

var textTmpl = template.Must(template.New("text").Funcs(funcs).Parse(`Telugu Short-News Package
{{rule}}

Generated At: {{.GeneratedAt}}
News ID: {{.NewsID}}
Input Type: {{.InputType}}

{{rule}}
HEADLINES (హెడ్‌లైన్స్)
{{rule}}

Selected Headline:
{{.SelectedHeadline}}

All Headlines:
{{range $i, $h := .AllHeadlines}}{{if $i}}
{{end}}{{inc $i}}. {{$h}}{{end}}

{{rule}}
SCRIPT (స్క్రిప్ట్)
{{rule}}

{{.Script.Text}}

{{rule}}
HASHTAGS (హ్యాష్‌ట్యాగ్స్)
{{rule}}

{{join .Hashtags " "}}

{{rule}}
THUMBNAIL CHECKLIST (థంబ్‌నైల్ చెక్‌లిస్ట్)
{{rule}}

{{range $i, $c := .ThumbnailChecklist}}{{if $i}}
{{end}}{{mark $c.Checked}} {{inc $i}}. {{$c.Label}}{{end}}

{{rule}}
ORIGINAL INPUT
{{rule}}

{{.OriginalInput}}
`))

type textView struct {
	content.ExportData
	GeneratedAt string
}

type TextExporter struct{}

func (TextExporter) Export(data content.ExportData, fileName string, sink Sink) ([]string, error) {
	var buf bytes.Buffer
	view := textView{ExportData: data, GeneratedAt: data.GeneratedAt.UTC().Format(time.RFC3339Nano)}
	if err := textTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render text export: %w", err)
	}
	path, err := sink.Write(replaceExt(fileName, ".txt"), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

var printTmpl = htmltemplate.Must(htmltemplate.New("print").Funcs(htmltemplate.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"mark": checkMark,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Telugu News Package - {{.NewsID}}</title>
  <meta charset="UTF-8">
  <style>
    @page { margin: 2cm; }
    body { font-family: 'Noto Sans Telugu', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
    h1 { color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px; }
    h2 { color: #764ba2; margin-top: 30px; }
    .meta { color: #666; font-size: 14px; }
    .headline-box { background: #f5f5f5; padding: 15px; border-left: 4px solid #667eea; margin: 10px 0; }
    .script-box { background: #fafafa; padding: 20px; border-radius: 8px; margin: 15px 0; }
    .hashtags { color: #667eea; font-weight: 600; }
    .checklist { list-style: none; padding-left: 0; }
    .checklist li { padding: 8px 0; border-bottom: 1px solid #eee; }
  </style>
</head>
<body>
  <h1>🎬 Telugu Short-News Package</h1>
  <div class="meta">
    <p><strong>Generated:</strong> {{.Generated}}</p>
    <p><strong>News ID:</strong> {{.NewsID}}</p>
    <p><strong>Input Type:</strong> {{.InputType}}</p>
  </div>

  <h2>📰 Selected Headline / ఎంచుకున్న హెడ్‌లైన్</h2>
  <div class="headline-box">{{.SelectedHeadline}}</div>

  <h2>📝 All Headlines / అన్ని హెడ్‌లైన్స్</h2>
  {{range $i, $h := .AllHeadlines}}<div class="headline-box">{{inc $i}}. {{$h}}</div>
  {{end}}
  <h2>🎬 Script (15 seconds) / స్క్రిప్ట్</h2>
  <div class="script-box">{{.Script.Text}}</div>

  <h2>#️⃣ Hashtags / హ్యాష్‌ట్యాగ్స్</h2>
  <p class="hashtags">{{join .Hashtags " "}}</p>

  <h2>✅ Thumbnail Checklist / థంబ్‌నైల్ చెక్‌లిస్ట్</h2>
  <ul class="checklist">
  {{range .ThumbnailChecklist}}<li>{{mark .Checked}} {{.Label}}</li>
  {{end}}</ul>

  <h2>📄 Original Input</h2>
  <div class="script-box">{{.OriginalInput}}</div>
</body>
</html>
`))

const printNote = "Open the .html file in a browser and use the Print dialog to save it as PDF.\n"

type printView struct {
	content.ExportData
	Generated string
}

// PrintExporter writes a print-ready HTML document plus a note saying it
// is meant for the browser print dialog.
type PrintExporter struct{}

func (PrintExporter) Export(data content.ExportData, fileName string, sink Sink) ([]string, error) {
	var buf bytes.Buffer
	view := printView{ExportData: data, Generated: data.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")}
	if err := printTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render print export: %w", err)
	}
	doc, err := sink.Write(replaceExt(fileName, ".html"), buf.Bytes())
	if err != nil {
		return nil, err
	}
	note, err := sink.Write(replaceExt(fileName, ".print.txt"), []byte(printNote))
	if err != nil {
		return nil, err
	}
	return []string{doc, note}, nil
}

func replaceExt(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "telugu-news-export"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
