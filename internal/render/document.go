package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"newsdesk/internal/ui"
)

var ErrNoElement = errors.New("no element with that id")

const (
	eventClick = "click"
	eventInput = "input"
)

// Document is an in-memory DOM rooted at the workstation container. It
// keeps the event listeners the interpreter attaches so that clicks and
// edits can be replayed without a browser.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]func()
}

func NewDocument() *Document {
	return &Document{
		root:      element("div", "id", "workstation"),
		listeners: make(map[*html.Node]map[string][]func()),
	}
}

func (d *Document) Root() *html.Node { return d.root }

func (d *Document) on(n *html.Node, event string, fn func()) {
	if d.listeners[n] == nil {
		d.listeners[n] = make(map[string][]func())
	}
	d.listeners[n][event] = append(d.listeners[n][event], fn)
}

func (d *Document) fire(n *html.Node, event string) {
	for _, fn := range d.listeners[n][event] {
		fn()
	}
}

// clear removes the children of n and forgets their listeners.
func (d *Document) clear(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		walk(c, func(x *html.Node) bool {
			delete(d.listeners, x)
			return true
		})
		n.RemoveChild(c)
	}
}

// ElementByID returns the element with id. When ids repeat, the last one
// in document order wins.
func (d *Document) ElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := getAttr(n, "id"); ok && v == id {
				found = n
			}
		}
		return true
	})
	return found
}

func (d *Document) mustElement(id string) (*html.Node, error) {
	n := d.ElementByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoElement, id)
	}
	return n, nil
}

// Click activates the element. Radios become checked and uncheck every
// other radio with the same name; checkboxes toggle.
func (d *Document) Click(id string) error {
	n, err := d.mustElement(id)
	if err != nil {
		return err
	}
	if _, disabled := getAttr(n, "disabled"); disabled {
		return nil
	}
	if n.Data == "input" {
		switch t, _ := getAttr(n, "type"); t {
		case "radio":
			d.checkRadio(n)
		case "checkbox":
			d.setChecked(n, !d.isChecked(n))
		}
	}
	d.fire(n, eventClick)
	return nil
}

func (d *Document) checkRadio(n *html.Node) {
	name, _ := getAttr(n, "name")
	walk(d.root, func(x *html.Node) bool {
		if x != n && x.Data == "input" {
			t, _ := getAttr(x, "type")
			other, _ := getAttr(x, "name")
			if t == "radio" && other == name {
				d.setChecked(x, false)
			}
		}
		return true
	})
	d.setChecked(n, true)
}

func (d *Document) setChecked(n *html.Node, on bool) {
	if on {
		setAttr(n, "checked", "checked")
	} else {
		removeAttr(n, "checked")
	}
}

func (d *Document) isChecked(n *html.Node) bool {
	_, ok := getAttr(n, "checked")
	return ok
}

// SetValue edits an input or textarea and fires its input listeners.
func (d *Document) SetValue(id, v string) error {
	n, err := d.mustElement(id)
	if err != nil {
		return err
	}
	switch n.Data {
	case "textarea":
		setText(n, v)
	case "input":
		setAttr(n, "value", v)
	default:
		return fmt.Errorf("element %q is a %s, not a form field", id, n.Data)
	}
	d.fire(n, eventInput)
	return nil
}

// Value is the current value of a form field.
func (d *Document) Value(id string) (string, bool) {
	n := d.ElementByID(id)
	if n == nil {
		return "", false
	}
	return fieldValue(n)
}

func fieldValue(n *html.Node) (string, bool) {
	switch n.Data {
	case "textarea":
		return textContent(n), true
	case "input":
		v, _ := getAttr(n, "value")
		return v, true
	}
	return "", false
}

func (d *Document) Checked(id string) bool {
	n := d.ElementByID(id)
	return n != nil && d.isChecked(n)
}

// Text is the text content of the element with id.
func (d *Document) Text(id string) string {
	return textContent(d.ElementByID(id))
}

func (d *Document) HTML() string {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return ""
	}
	return b.String()
}

// Values returns the values of every form field whose id starts with
// prefix, in document order.
func (d *Document) Values(prefix string) []string {
	var out []string
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		id, _ := getAttr(n, "id")
		if !strings.HasPrefix(id, prefix) {
			return true
		}
		if v, ok := fieldValue(n); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// CheckedValue is the value of the checked radio named name.
func (d *Document) CheckedValue(name string) (string, bool) {
	var (
		val string
		ok  bool
	)
	walk(d.root, func(n *html.Node) bool {
		if n.Data != "input" {
			return true
		}
		t, _ := getAttr(n, "type")
		nm, _ := getAttr(n, "name")
		if t == "radio" && nm == name && d.isChecked(n) {
			val, _ = getAttr(n, "value")
			ok = true
			return false
		}
		return true
	})
	return val, ok
}

// ShowPreview puts a rendered thumbnail into the preview card, keeping the
// card's heading and replacing everything after it.
func (d *Document) ShowPreview(png []byte) error {
	card, err := d.mustElement(ui.ThumbnailPreviewID)
	if err != nil {
		return err
	}
	children := elementChildren(card)
	for i, c := range children {
		if i == 0 {
			continue
		}
		walk(c, func(x *html.Node) bool {
			delete(d.listeners, x)
			return true
		})
		card.RemoveChild(c)
	}
	card.AppendChild(element("img",
		"id", "thumbnail-canvas",
		"class", "a2ui-thumbnail",
		"width", "1080",
		"height", "1920",
		"style", "max-width: 100%; border: 2px solid #ddd; border-radius: 8px",
		"src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png),
	))
	return nil
}
