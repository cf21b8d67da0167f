// Package content holds the news bundle produced by generation and the
// operations the workstation applies to it.
package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type InputType string

const (
	InputURL        InputType = "url"
	InputTranscript InputType = "transcript"
	InputNotes      InputType = "notes"
)

func (t InputType) Valid() bool {
	switch t {
	case InputURL, InputTranscript, InputNotes:
		return true
	}
	return false
}

type Section string

const (
	SectionHeadlines Section = "headlines"
	SectionScript    Section = "script"
	SectionHashtags  Section = "hashtags"
)

func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.TrimSpace(s)); sec {
	case SectionHeadlines, SectionScript, SectionHashtags:
		return sec, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

var (
	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownHeadline  = errors.New("unknown headline")
	ErrUnknownChecklist = errors.New("unknown checklist item")
	ErrNoHeadlines      = errors.New("no headlines")
)

type Headline struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

type Script struct {
	Text      string `json:"text"`
	Duration  string `json:"duration"`
	WordCount int    `json:"wordCount"`
}

type ChecklistItem struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Bundle is the generated package for one news story.
type Bundle struct {
	OriginalInput      string          `json:"originalInput"`
	Type               InputType       `json:"type"`
	Headlines          []Headline      `json:"headlines"`
	Script             *Script         `json:"script,omitempty"`
	Hashtags           []string        `json:"hashtags"`
	ThumbnailChecklist []ChecklistItem `json:"thumbnailChecklist"`
}

// SelectedHeadline returns the first selected headline text, falling back
// to the first headline, or "" when there are none.
func (b Bundle) SelectedHeadline() string {
	for _, h := range b.Headlines {
		if h.Selected {
			return h.Text
		}
	}
	if len(b.Headlines) > 0 {
		return b.Headlines[0].Text
	}
	return ""
}

func (b Bundle) ScriptText() string {
	if b.Script == nil {
		return ""
	}
	return b.Script.Text
}

// ChecklistProgress returns completed and total checklist items.
func (b Bundle) ChecklistProgress() (done, total int) {
	for _, item := range b.ThumbnailChecklist {
		if item.Checked {
			done++
		}
	}
	return done, len(b.ThumbnailChecklist)
}

func (b Bundle) Clone() Bundle {
	out := b
	out.Headlines = slices.Clone(b.Headlines)
	out.Hashtags = slices.Clone(b.Hashtags)
	out.ThumbnailChecklist = slices.Clone(b.ThumbnailChecklist)
	if b.Script != nil {
		s := *b.Script
		out.Script = &s
	}
	return out
}

// Replace copies one section from src into b.
func (b *Bundle) Replace(section Section, src Bundle) error {
	src = src.Clone()
	switch section {
	case SectionHeadlines:
		b.Headlines = src.Headlines
	case SectionScript:
		b.Script = src.Script
		if b.Script != nil && b.Script.WordCount == 0 {
			b.Script.WordCount = WordCount(b.Script.Text)
		}
	case SectionHashtags:
		b.Hashtags = src.Hashtags
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil
}

// SetHeadlines replaces headline texts in order. Blank entries are dropped
// and the first remaining headline becomes selected.
func (b *Bundle) SetHeadlines(texts []string) error {
	out := make([]Headline, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, Headline{
			ID:       fmt.Sprintf("h%d", len(out)+1),
			Text:     t,
			Selected: len(out) == 0,
		})
	}
	if len(out) == 0 {
		return ErrNoHeadlines
	}
	b.Headlines = out
	return nil
}

// SetScript replaces the script text and recomputes its word count.
func (b *Bundle) SetScript(text string) {
	if b.Script == nil {
		b.Script = &Script{}
	}
	b.Script.Text = text
	b.Script.WordCount = WordCount(text)
}

func (b *Bundle) SelectHeadline(id string) error {
	idx := slices.IndexFunc(b.Headlines, func(h Headline) bool { return h.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownHeadline, id)
	}
	for i := range b.Headlines {
		b.Headlines[i].Selected = i == idx
	}
	return nil
}

// ToggleChecklist flips one checklist item and returns its new state.
func (b *Bundle) ToggleChecklist(id string) (bool, error) {
	for i := range b.ThumbnailChecklist {
		if b.ThumbnailChecklist[i].ID == id {
			b.ThumbnailChecklist[i].Checked = !b.ThumbnailChecklist[i].Checked
			return b.ThumbnailChecklist[i].Checked, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownChecklist, id)
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
