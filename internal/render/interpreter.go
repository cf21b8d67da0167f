// Package render interprets a surface into an in-memory HTML document and
// wires its interactive elements to actions.
package render

import (
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/net/html"

	"newsdesk/internal/platform/logger"
	"newsdesk/internal/ui"
)

// ErrMissingSurface is returned for a payload without a surface body. The
// container then shows a visible error instead of a partial tree.
var ErrMissingSurface = errors.New("invalid payload: missing surface")

type Interpreter struct {
	doc      *Document
	log      *logger.Logger
	onAction func(ui.Action)

	current    ui.Surface
	hasCurrent bool
}

func New(doc *Document, log *logger.Logger) *Interpreter {
	if doc == nil {
		doc = NewDocument()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interpreter{doc: doc, log: log}
}

func (i *Interpreter) Document() *Document { return i.doc }

// OnAction sets the callback run when an element with an action is
// activated.
func (i *Interpreter) OnAction(fn func(ui.Action)) { i.onAction = fn }

// Current is the last surface rendered successfully.
func (i *Interpreter) Current() (ui.Surface, bool) { return i.current, i.hasCurrent }

// RenderSurface replaces the whole workstation with s.
func (i *Interpreter) RenderSurface(s ui.Surface) error {
	return i.Render(s, i.doc.Root())
}

// Render clears container and renders s into it. A panic anywhere below is
// logged and returned as an error; the container is left showing an error.
func (i *Interpreter) Render(s ui.Surface, container *html.Node) (err error) {
	if container == nil {
		return errors.New("render: nil container")
	}
	defer func() {
		if r := recover(); r != nil {
			i.log.Error("render failed", "panic", r, "stack", string(debug.Stack()))
			i.showError(container, "Render failed")
			err = fmt.Errorf("render: %v", r)
		}
	}()

	if s.Surface == nil {
		i.log.Error("invalid payload: missing surface")
		i.showError(container, "Invalid payload: missing surface")
		return ErrMissingSurface
	}

	i.doc.clear(container)
	for _, c := range s.Surface.Components {
		if n := i.renderComponent(c); n != nil {
			container.AppendChild(n)
		}
	}
	i.wireTabs(container)
	i.current, i.hasCurrent = s, true
	return nil
}

func (i *Interpreter) showError(container *html.Node, msg string) {
	i.doc.clear(container)
	box := element("div", "class", "a2ui-error", "role", "alert")
	box.AppendChild(textNode(msg))
	container.AppendChild(box)
}

// renderComponent renders one node. Unknown kinds and panicking renderers
// yield the placeholder so siblings keep rendering.
func (i *Interpreter) renderComponent(c ui.Node) (out *html.Node) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Error("component render failed", "type", c.Type, "id", c.ID, "panic", r)
			out = placeholder(c.Type)
		}
	}()

	switch c.Type {
	case ui.KindCard:
		return i.renderContainer(c, "div", "a2ui-card")
	case ui.KindColumn:
		n := i.renderContainer(c, "div", "a2ui-column")
		if c.Weight > 0 {
			appendStyle(n, fmt.Sprintf("flex: %g", c.Weight))
		}
		return n
	case ui.KindRow:
		return i.renderRow(c)
	case ui.KindList:
		return i.renderContainer(c, "div", "a2ui-list")
	case ui.KindTabs:
		return i.renderTabs(c)
	case ui.KindTab:
		return i.renderContainer(c, "div", "a2ui-tab-content")
	case ui.KindText:
		return renderText(c)
	case ui.KindButton:
		return i.renderButton(c)
	case ui.KindDivider:
		return element("hr", "id", c.ID, "class", "a2ui-divider")
	case ui.KindCheckbox:
		return i.renderCheckbox(c)
	case ui.KindImage:
		return renderImage(c)
	case ui.KindIcon:
		return renderIcon(c)
	case ui.KindTextField:
		return i.renderTextField(c)
	case ui.KindRadio:
		return i.renderRadio(c)
	case ui.KindRadioGroup:
		return i.renderRadioGroup(c)
	case ui.KindSlider:
		return i.renderSlider(c)
	case ui.KindProgressBar:
		return renderProgressBar(c)
	case ui.KindBadge:
		return renderBadge(c)
	default:
		i.log.Warn("no renderer for component type", "type", c.Type, "id", c.ID)
		return placeholder(c.Type)
	}
}

func placeholder(kind ui.Kind) *html.Node {
	n := element("div", "class", "a2ui-unsupported", "style", "color: #999; font-style: italic")
	n.AppendChild(textNode(fmt.Sprintf("[Unsupported component: %s]", kind)))
	return n
}

func (i *Interpreter) appendChildren(parent *html.Node, children []ui.Node) {
	for _, child := range children {
		if n := i.renderComponent(child); n != nil {
			parent.AppendChild(n)
		}
	}
}

func (i *Interpreter) renderContainer(c ui.Node, tag, class string) *html.Node {
	n := element(tag, "id", c.ID, "class", class)
	i.appendChildren(n, c.Children)
	return n
}

// bindAction makes activating n dispatch a, if any.
func (i *Interpreter) bindAction(n *html.Node, a *ui.Action) {
	if a == nil {
		return
	}
	action := *a
	i.doc.on(n, eventClick, func() {
		if i.onAction != nil {
			i.onAction(action)
		}
	})
}
