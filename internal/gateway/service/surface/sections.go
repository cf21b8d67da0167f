package surface

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"newsdesk/internal/content"
	"newsdesk/internal/ui"
)

const (
	accent = "#667eea"
	muted  = "#888"
	green  = "#4caf50"

	targetWords = 60
)

func icon(id, name, color, size string) ui.Node {
	n := ui.Icon(id, name, color)
	n.Size = size
	return n
}

func caption(id, text string) ui.Node { return ui.Text(id, text, "caption") }

func headlinesSection(newsID string, headlines []content.Headline) []ui.Node {
	c := newIDs("h", 100)
	out := []ui.Node{
		ui.Row(c.next(), "",
			icon(c.next(), "title", accent, "28px"),
			ui.Text(c.next(), "హెడ్‌లైన్ ఆప్షన్స్ ఎంచుకోండి:", "h3"),
			ui.Badge(c.next(), fmt.Sprintf("%d Options", len(headlines)), "primary"),
		),
	}

	for i, h := range headlines {
		label := []ui.Node{caption(c.next(), fmt.Sprintf("ఆప్షన్ %d:", i+1))}
		if h.Selected {
			label = append(label, ui.Badge(c.next(), "Selected", "success"))
		}
		field := ui.TextField(HeadlineFieldID(i), "", h.Text, 0)
		field.Placeholder = "Edit headline..."

		out = append(out, ui.Card(c.next(),
			ui.Row(c.next(), "", label...),
			field,
			ui.Row(c.next(), "spaceBetween",
				ui.Row(c.next(), "",
					icon(c.next(), "text_fields", muted, "18px"),
					caption(c.next(), fmt.Sprintf("%d characters", utf8.RuneCountInString(h.Text))),
				),
				ui.Radio(c.next(), "Use this", HeadlineSelection, h.ID, h.Selected,
					ui.PostAction(ui.EndpointSelectHeadline, map[string]any{"newsId": newsID, "headlineId": h.ID})),
			),
		))
	}

	out = append(out, ui.Row(c.next(), "spaceBetween",
		ui.Row(c.next(), "",
			icon(c.next(), "save", green, ""),
			ui.Button(c.next(), "హెడ్‌లైన్స్ సేవ్ చేయండి / Save Headlines", false,
				ui.PostAction(ui.EndpointUpdateHeadlines, map[string]any{"newsId": newsID})),
		),
		ui.Row(c.next(), "",
			icon(c.next(), "refresh", accent, ""),
			ui.Button(c.next(), "రీజెనరేట్ / Regenerate", false,
				ui.PostAction(ui.EndpointRegenerate, map[string]any{"newsId": newsID, "section": string(content.SectionHeadlines)})),
		),
	))
	return out
}

func scriptSection(newsID string, script *content.Script) []ui.Node {
	var s content.Script
	if script != nil {
		s = *script
	}
	c := newIDs("s", 200)

	editor := ui.TextField(ScriptEditorID, "స్క్రిప్ట్ / Script (Editable):", s.Text, 6)
	editor.Placeholder = "Edit your script here..."

	out := []ui.Node{
		ui.Row(c.next(), "",
			icon(c.next(), "description", accent, "28px"),
			ui.Text(c.next(), "15-సెకన్ల వీడియో స్క్రిప్ట్:", "h3"),
		),
		ui.Card(c.next(),
			editor,
			caption(c.next(), "💡 Tip: Keep it conversational and within 15 seconds for best results"),
			ui.Divider(c.next()),
			ui.Row(c.next(), "spaceBetween",
				ui.Row(c.next(), "",
					icon(c.next(), "timer", muted, ""),
					caption(c.next(), "వ్యవధి: "+s.Duration),
					icon(c.next(), "article", muted, ""),
					caption(c.next(), fmt.Sprintf("పదాల సంఖ్య: %d", s.WordCount)),
				),
				ui.Button(c.next(), "స్క్రిప్ట్ సేవ్ చేయండి / Save Script", false,
					ui.PostAction(ui.EndpointUpdateScript, map[string]any{"newsId": newsID})),
			),
		),
	}
	duration := ui.Slider(c.next(), "స్క్రిప్ట్ వ్యవధి సర్దుబాటు / Adjust Duration:", 10, 20, durationSeconds(s.Duration), 1)
	duration.Unit = " సెకన్లు"

	progress := ui.ProgressBar(c.next(), "పదాల సంఖ్య లక్ష్యం (Target: 40-50 words):", wordProgress(s.WordCount))
	progress.ShowValue = true

	out = append(out, duration, progress,
		ui.Row(c.next(), "",
			icon(c.next(), "refresh", accent, ""),
			ui.Button(c.next(), "స్క్రిప్ట్ రీజెనరేట్ చేయండి / Regenerate Script", false,
				ui.PostAction(ui.EndpointRegenerate, map[string]any{"newsId": newsID, "section": string(content.SectionScript)})),
		),
	)
	return out
}

func hashtagsSection(newsID string, hashtags []string) []ui.Node {
	c := newIDs("t", 300)
	out := []ui.Node{
		ui.Text(c.next(), "సోషల్ మీడియా హ్యాష్‌ట్యాగ్స్:", "h3"),
		ui.Card(c.next(), ui.Text(c.next(), strings.Join(hashtags, " "), "body")),
	}
	listID := c.next()
	items := make([]ui.Node, 0, len(hashtags))
	for _, tag := range hashtags {
		items = append(items, ui.Text(c.next(), tag, "body"))
	}
	out = append(out,
		ui.List(listID, items...),
		ui.Button(c.next(), "🔄 హ్యాష్‌ట్యాగ్స్ రీజెనరేట్ చేయండి / Regenerate Hashtags", false,
			ui.PostAction(ui.EndpointRegenerate, map[string]any{"newsId": newsID, "section": string(content.SectionHashtags)})),
	)
	return out
}

func thumbnailSection(newsID string, checklist []content.ChecklistItem, headline string) []ui.Node {
	c := newIDs("th", 400)
	done := 0
	for _, item := range checklist {
		if item.Checked {
			done++
		}
	}
	variant := "warning"
	if done == len(checklist) {
		variant = "success"
	}

	bg := ui.ColorField(ThumbnailBgColorID, "", DefaultBackground)
	bg.Placeholder = DefaultBackground
	fg := ui.ColorField(ThumbnailTextColorID, "", DefaultForeground)
	fg.Placeholder = DefaultForeground
	text := ui.TextField(ThumbnailHeadlineID, "", headline, 2)
	text.Placeholder = "Enter headline for thumbnail..."

	out := []ui.Node{
		ui.Row(c.next(), "",
			icon(c.next(), "image", accent, "28px"),
			ui.Text(c.next(), "థంబ్‌నెయిల్ జనరేటర్ / Thumbnail Generator:", "h3"),
			ui.Badge(c.next(), fmt.Sprintf("%d/%d Complete", done, len(checklist)), variant),
		),
		ui.Card(c.next(),
			ui.Text(c.next(), "1️⃣ బ్యాక్‌గ్రౌండ్ కలర్ / Background Color:", "h4"),
			bg,
			ui.Divider(c.next()),
			ui.Text(c.next(), "2️⃣ హెడ్‌లైన్ టెక్స్ట్ / Headline Text:", "h4"),
			text,
			ui.Divider(c.next()),
			ui.Text(c.next(), "3️⃣ టెక్స్ట్ కలర్ / Text Color:", "h4"),
			fg,
		),
		ui.Card(ThumbnailPreviewID,
			ui.Text(c.next(), "📸 ప్రివ్యూ / Preview (9:16 aspect ratio for shorts):", "h4"),
			caption(c.next(), "Canvas preview will be rendered here"),
		),
		ui.Row(c.next(), "end",
			ui.Button(c.next(), "🎨 థంబ్‌నెయిల్ జనరేట్ చేయండి / Generate Thumbnail", true, ui.CustomAction(ui.HandlerGenerateThumbnail)),
			ui.Button(c.next(), "💾 డౌన్‌లోడ్ / Download", false, ui.CustomAction(ui.HandlerDownloadThumbnail)),
		),
	}

	progress := ui.ProgressBar(c.next(), "థంబ్‌నెయిల్ పూర్తి స్థాయి / Completion Progress:", completion(done, len(checklist)))
	progress.ShowValue = true

	rowsID := c.next()
	rows := make([]ui.Node, 0, len(checklist))
	for _, item := range checklist {
		row := []ui.Node{ui.Checkbox(c.next(), item.Label, item.Checked,
			ui.PostAction(ui.EndpointToggleChecklist, map[string]any{"newsId": newsID, "itemId": item.ID}))}
		if item.Checked {
			row = append(row, icon(c.next(), "check_circle", green, ""))
		}
		rows = append(rows, ui.Row(c.next(), "", row...))
	}
	return append(out, progress, ui.Card(rowsID, rows...))
}

// wordProgress is the share of the target word count, capped at 100.
func wordProgress(words int) float64 {
	return math.Min(float64(words)/targetWords*100, 100)
}

// completion is done/total as a percentage, 0 for an empty checklist.
func completion(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// durationSeconds reads the leading number of a duration like "14 సెకన్లు",
// defaulting to 15.
func durationSeconds(d string) float64 {
	fields := strings.Fields(d)
	if len(fields) == 0 {
		return 15
	}
	if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
		return v
	}
	return 15
}
