package content

import (
	"fmt"
	"strings"
	"time"
)

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatText ExportFormat = "text"
	FormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat defaults an empty value to json.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatText, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f ExportFormat) Ext() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatPDF:
		return ".pdf"
	default:
		return ".json"
	}
}

// FileName is the download name for an approved package.
func (f ExportFormat) FileName(newsID string) string {
	return "telugu-news-" + newsID + f.Ext()
}

// ExportData is the approved package handed to the client exporters.
type ExportData struct {
	NewsID             string          `json:"newsId"`
	GeneratedAt        time.Time       `json:"generatedAt"`
	SelectedHeadline   string          `json:"selectedHeadline"`
	AllHeadlines       []string        `json:"allHeadlines"`
	Script             Script          `json:"script"`
	Hashtags           []string        `json:"hashtags"`
	ThumbnailChecklist []ChecklistItem `json:"thumbnailChecklist"`
	OriginalInput      string          `json:"originalInput"`
	InputType          InputType       `json:"inputType"`
}

func NewExportData(newsID string, b Bundle, now time.Time) ExportData {
	b = b.Clone()
	all := make([]string, 0, len(b.Headlines))
	for _, h := range b.Headlines {
		all = append(all, h.Text)
	}
	var script Script
	if b.Script != nil {
		script = *b.Script
	}
	hashtags := b.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	checklist := b.ThumbnailChecklist
	if checklist == nil {
		checklist = []ChecklistItem{}
	}
	return ExportData{
		NewsID:             newsID,
		GeneratedAt:        now.UTC(),
		SelectedHeadline:   b.SelectedHeadline(),
		AllHeadlines:       all,
		Script:             script,
		Hashtags:           hashtags,
		ThumbnailChecklist: checklist,
		OriginalInput:      b.OriginalInput,
		InputType:          b.Type,
	}
}
