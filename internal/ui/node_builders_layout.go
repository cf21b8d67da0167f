package ui

import (
	"encoding/json"
	"strconv"
	"strings"
)

func container(kind Kind, id string, children []Node) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{ID: strings.TrimSpace(id), Type: kind, Children: children}
}

func Card(id string, children ...Node) Node {
	return container(KindCard, id, children)
}

func Column(id string, children ...Node) Node {
	return container(KindColumn, id, children)
}

func List(id string, children ...Node) Node {
	return container(KindList, id, children)
}

// Row lays children out horizontally. distribution is passed through to the
// renderer as a justify hint ("spaceBetween", "center", ...).
func Row(id, distribution string, children ...Node) Node {
	n := container(KindRow, id, children)
	n.Distribution = strings.TrimSpace(distribution)
	return n
}

// Tabs holds Tab children; the first one is active after render.
func Tabs(id string, tabs ...Node) Node {
	return container(KindTabs, id, tabs)
}

func Tab(id, label string, children ...Node) Node {
	n := container(KindTab, id, children)
	n.Label = strings.TrimSpace(label)
	return n
}

func Text(id, text, hint string) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindText, Text: text, Hint: strings.TrimSpace(hint)}
}

func Divider(id string) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindDivider}
}

func Icon(id, name, color string) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindIcon, Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
}

func Badge(id, text, variant string) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindBadge, Text: text, Variant: strings.TrimSpace(variant)}
}

func Image(id, url, alt string) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindImage, URL: strings.TrimSpace(url), Alt: alt}
}

func ProgressBar(id, label string, percent float64) Node {
	return Node{ID: strings.TrimSpace(id), Type: KindProgressBar, Label: label, Value: NumberRaw(percent)}
}

// StringRaw encodes s as a JSON string value.
func StringRaw(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// NumberRaw encodes f as a JSON number value.
func NumberRaw(f float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))
}

func BoolRaw(b bool) json.RawMessage {
	if b {
		return json.RawMessage("true")
	}
	return json.RawMessage("false")
}

func floatPtr(f float64) *float64 { return &f }
