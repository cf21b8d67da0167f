package ui

// Element ids and names that both the surface builder and the client rely
// on. The client harvests live form values by these conventions.
const (
	HeadlineFieldPrefix  = "headline-"
	ScriptEditorID       = "script-editor"
	ThumbnailBgColorID   = "thumbnail-bg-color"
	ThumbnailHeadlineID  = "thumbnail-headline"
	ThumbnailTextColorID = "thumbnail-text-color"
	ThumbnailPreviewID   = "thumbnail-preview"
	ExportFormatGroup    = "exportFormat"
)
