// Package surface rebuilds the complete workstation tree from a bundle.
// Build is pure: the same bundle always yields the same tree.
package surface

import (
	"fmt"

	"newsdesk/internal/content"
	"newsdesk/internal/ui"
)

const (
	SurfaceID = "main"

	ExportFormatGroup = ui.ExportFormatGroup
	HeadlineSelection = "headline-selection"

	ScriptEditorID       = ui.ScriptEditorID
	ThumbnailBgColorID   = ui.ThumbnailBgColorID
	ThumbnailHeadlineID  = ui.ThumbnailHeadlineID
	ThumbnailTextColorID = ui.ThumbnailTextColorID
	ThumbnailPreviewID   = ui.ThumbnailPreviewID
	ExportFormatID       = "export-format"

	DefaultBackground = "#667eea"
	DefaultForeground = "#ffffff"
)

// HeadlineFieldID is the editable field id of the i-th headline.
func HeadlineFieldID(i int) string { return fmt.Sprintf("%s%d", ui.HeadlineFieldPrefix, i) }

// ids hands out sequential ids within one section of the tree so sections
// never collide with each other.
type ids struct {
	prefix string
	n      int
}

func newIDs(prefix string, start int) *ids { return &ids{prefix: prefix, n: start} }

func (c *ids) next() string {
	id := fmt.Sprintf("%s%d", c.prefix, c.n)
	c.n++
	return id
}

// Build returns the full surface for one news bundle.
func Build(newsID string, b content.Bundle) ui.Surface {
	b = b.Clone()
	c := newIDs("c", 0)

	header := ui.Card(c.next(),
		ui.Text(c.next(), "తెలుగు షార్ట్-న్యూస్ వర్క్‌స్టేషన్", "h1"),
		ui.Text(c.next(), "Telugu Short-News Creation Workstation", "caption"),
		ui.Divider(c.next()),
	)

	tabsID := c.next()
	tabs := ui.Tabs(tabsID,
		ui.Tab(c.next(), "హెడ్‌లైన్స్ / Headlines", headlinesSection(newsID, b.Headlines)...),
		ui.Tab(c.next(), "15-సెకన్ల స్క్రిప్ట్ / Script", scriptSection(newsID, b.Script)...),
		ui.Tab(c.next(), "హ్యాష్‌ట్యాగ్స్ / Hashtags", hashtagsSection(newsID, b.Hashtags)...),
		ui.Tab(c.next(), "థంబ్‌నెయిల్ / Thumbnail", thumbnailSection(newsID, b.ThumbnailChecklist, b.SelectedHeadline())...),
	)

	approval := ui.Card(c.next(),
		ui.Divider(c.next()),
		ui.Text(c.next(), "ఎగ్జిట్ ఫార్మాట్ / Export Format", "h4"),
		ui.RadioGroup(ExportFormatID, ExportFormatGroup, "",
			ui.Radio(c.next(), "JSON (స్ట్రక్చర్డ్ డేటా / Structured Data)", ExportFormatGroup, string(content.FormatJSON), true, nil),
			ui.Radio(c.next(), "Text (టెక్స్ట్ ఫైల్ / Plain Text)", ExportFormatGroup, string(content.FormatText), false, nil),
			ui.Radio(c.next(), "PDF (డాక్యుమెంట్ / Document)", ExportFormatGroup, string(content.FormatPDF), false, nil),
		),
		ui.Row(c.next(), "end",
			ui.Button(c.next(), "డ్రాఫ్ట్ సేవ్ చేయండి / Save Draft", false,
				ui.PostAction(ui.EndpointSave, map[string]any{"newsId": newsID})),
			ui.Button(c.next(), "ఆమోదించండి & ఎగ్జిట్ / Approve & Export", true,
				ui.PostAction(ui.EndpointApprove, map[string]any{"newsId": newsID, "format": string(content.FormatJSON)})),
		),
	)

	return ui.NewSurface(SurfaceID, []ui.Node{header, tabs, approval}, &ui.DataModel{
		NewsID:  newsID,
		Content: b,
	})
}
