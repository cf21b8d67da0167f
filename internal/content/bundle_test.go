package content

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle() Bundle {
	return Bundle{
		OriginalInput: "story",
		Type:          InputNotes,
		Headlines: []Headline{
			{ID: "h1", Text: "one"},
			{ID: "h2", Text: "two", Selected: true},
			{ID: "h3", Text: "three"},
		},
		Script:   &Script{Text: "a b c", Duration: "14 సెకన్లు", WordCount: 3},
		Hashtags: []string{"#a", "#b"},
		ThumbnailChecklist: []ChecklistItem{
			{ID: "bg", Label: "bg", Checked: true},
			{ID: "logo", Label: "logo"},
		},
	}
}

func TestSelectedHeadline(t *testing.T) {
	b := sampleBundle()
	assert.Equal(t, "two", b.SelectedHeadline())

	b.Headlines[1].Selected = false
	assert.Equal(t, "one", b.SelectedHeadline())

	b.Headlines = nil
	assert.Equal(t, "", b.SelectedHeadline())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount(" నమస్కారం  వ్యూయర్స్!\n థాంక్యూ "))
}

func TestCloneDoesNotAlias(t *testing.T) {
	b := sampleBundle()
	c := b.Clone()
	c.Headlines[0].Text = "changed"
	c.Script.Text = "changed"
	c.Hashtags[0] = "#z"
	assert.Equal(t, "one", b.Headlines[0].Text)
	assert.Equal(t, "a b c", b.Script.Text)
	assert.Equal(t, "#a", b.Hashtags[0])
}

func TestReplaceSection(t *testing.T) {
	b := sampleBundle()
	fresh := Bundle{Hashtags: []string{"#new"}, Script: &Script{Text: "x y", Duration: "15 సెకన్లు"}}

	require.NoError(t, b.Replace(SectionHashtags, fresh))
	assert.Equal(t, []string{"#new"}, b.Hashtags)
	assert.Equal(t, "a b c", b.ScriptText())

	require.NoError(t, b.Replace(SectionScript, fresh))
	assert.Equal(t, 2, b.Script.WordCount)

	assert.ErrorIs(t, b.Replace(Section("thumbnail"), fresh), ErrUnknownSection)
}

func TestSetHeadlines(t *testing.T) {
	b := sampleBundle()
	require.NoError(t, b.SetHeadlines([]string{" first ", "", "second"}))
	assert.Equal(t, []Headline{
		{ID: "h1", Text: "first", Selected: true},
		{ID: "h2", Text: "second"},
	}, b.Headlines)

	assert.ErrorIs(t, b.SetHeadlines([]string{" ", ""}), ErrNoHeadlines)
}

func TestSetScriptRecountsWords(t *testing.T) {
	var b Bundle
	b.SetScript("one two three four")
	require.NotNil(t, b.Script)
	assert.Equal(t, 4, b.Script.WordCount)
}

func TestSelectAndToggle(t *testing.T) {
	b := sampleBundle()
	require.NoError(t, b.SelectHeadline("h3"))
	assert.Equal(t, "three", b.SelectedHeadline())
	assert.ErrorIs(t, b.SelectHeadline("nope"), ErrUnknownHeadline)

	checked, err := b.ToggleChecklist("logo")
	require.NoError(t, err)
	assert.True(t, checked)
	done, total := b.ChecklistProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 2, total)

	_, err = b.ToggleChecklist("missing")
	assert.ErrorIs(t, err, ErrUnknownChecklist)
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("script")
	require.NoError(t, err)
	assert.Equal(t, SectionScript, s)
	_, err = ParseSection("thumbnail")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestExportData(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	data := NewExportData("n1", sampleBundle(), now)

	assert.Equal(t, "two", data.SelectedHeadline)
	assert.Equal(t, []string{"one", "two", "three"}, data.AllHeadlines)
	assert.Equal(t, "a b c", data.Script.Text)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"selectedHeadline", "allHeadlines", "script", "hashtags", "thumbnailChecklist", "originalInput", "inputType"} {
		assert.Contains(t, fields, key)
	}
}

func TestExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	f, err = ParseExportFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, "telugu-news-n1.txt", f.FileName("n1"))
	assert.Equal(t, ".pdf", FormatPDF.Ext())
	_, err = ParseExportFormat("docx")
	assert.Error(t, err)
}

func TestValidateInput(t *testing.T) {
	assert.Empty(t, ValidateInput(strings.Repeat("a", 30), InputNotes))
	assert.Empty(t, ValidateInput("https://example.com/article", InputURL))

	issues := ValidateInput("   ", InputNotes)
	require.Len(t, issues, 1)
	assert.Equal(t, "Please enter content", issues[0].Message)

	issues = ValidateInput("short", InputTranscript)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "at least 50")

	issues = ValidateInput("not a url at all!!", InputURL)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "valid URL")

	issues = ValidateInput(strings.Repeat("x", MaxInputLength+1), InputNotes)
	require.Len(t, issues, 1)
	assert.Contains(t, JoinIssues(issues), "cannot exceed")

	issues = ValidateInput("whatever", InputType("video"))
	require.Len(t, issues, 1)
	assert.Equal(t, "type", issues[0].Field)
}
