package ui

import (
	"encoding/json"
	"maps"
	"strings"
)

type ActionType string

const (
	ActionPost    ActionType = "post"
	ActionCustom  ActionType = "custom"
	ActionUnknown ActionType = ""
)

// Action is a declarative directive attached to an interactive node.
// Post actions carry a target URL and a static body template, custom actions
// name a local handler.
type Action struct {
	Type    ActionType     `json:"type"`
	URL     string         `json:"url,omitempty"`
	Body    map[string]any `json:"body,omitempty"`
	Handler string         `json:"handler,omitempty"`
}

func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Action(p)
	switch a.Type {
	case ActionPost, ActionCustom:
	default:
		a.Type = ActionUnknown
	}
	return nil
}

func PostAction(url string, body map[string]any) *Action {
	return &Action{Type: ActionPost, URL: strings.TrimSpace(url), Body: body}
}

func CustomAction(handler string) *Action {
	return &Action{Type: ActionCustom, Handler: strings.TrimSpace(handler)}
}

// BodyCopy returns a shallow copy of the body template, never nil.
func (a Action) BodyCopy() map[string]any {
	out := make(map[string]any, len(a.Body)+1)
	maps.Copy(out, a.Body)
	return out
}

// Key identifies an action for in-flight de-duplication.
func (a Action) Key() string {
	body, _ := json.Marshal(a.Body)
	return string(a.Type) + " " + a.URL + " " + a.Handler + " " + string(body)
}

const (
	EndpointGenerate        = "/api/generate"
	EndpointRegenerate      = "/api/regenerate"
	EndpointUpdateHeadlines = "/api/update-headlines"
	EndpointUpdateScript    = "/api/update-script"
	EndpointSave            = "/api/save"
	EndpointApprove         = "/api/approve"
	EndpointSelectHeadline  = "/api/select-headline"
	EndpointToggleChecklist = "/api/toggle-checklist"
	EndpointWatch           = "/api/watch"
)

// Local effect names understood by the client.
const (
	HandlerGenerateThumbnail = "generateThumbnail"
	HandlerDownloadThumbnail = "downloadThumbnail"
)
