package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"newsdesk/internal/ui"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderText(c ui.Node) *html.Node {
	n := element("div", "id", c.ID, "class", "a2ui-text-"+c.HintOrDefault())
	n.AppendChild(textNode(c.Text))
	return n
}

func (i *Interpreter) renderButton(c ui.Node) *html.Node {
	n := element("button", "id", c.ID, "class", "a2ui-button", "type", "button")
	if c.Primary {
		addClass(n, "primary")
	}
	if c.Disabled {
		setAttr(n, "disabled", "disabled")
	}
	n.AppendChild(textNode(c.TextOr("Button")))
	i.bindAction(n, c.Action)
	return n
}

func (i *Interpreter) renderRow(c ui.Node) *html.Node {
	n := element("div", "id", c.ID, "class", "a2ui-row")
	addClass(n, c.Distribution)
	for _, child := range c.Children {
		el := i.renderComponent(child)
		if el == nil {
			continue
		}
		if child.Weight > 0 {
			appendStyle(el, fmt.Sprintf("flex: %g", child.Weight))
		}
		n.AppendChild(el)
	}
	return n
}

// renderTabs lays out one header button and one content pane per Tab
// child. Activation is left to wireTabs.
func (i *Interpreter) renderTabs(c ui.Node) *html.Node {
	n := element("div", "id", c.ID, "class", "a2ui-tabs")
	header := element("div", "class", "a2ui-tabs-header")
	contents := element("div", "class", "a2ui-tabs-contents")
	for idx, tab := range c.Children {
		label := tab.Label
		if label == "" {
			label = fmt.Sprintf("Tab %d", idx+1)
		}
		btn := element("button",
			"id", tabButtonID(tab.ID),
			"class", "a2ui-tab-button",
			"type", "button",
			"data-tab-id", tab.ID,
		)
		btn.AppendChild(textNode(label))
		header.AppendChild(btn)

		pane := element("div", "id", tab.ID, "class", "a2ui-tab-content")
		if tab.Type == ui.KindTab {
			i.appendChildren(pane, tab.Children)
		} else if el := i.renderComponent(tab); el != nil {
			pane.AppendChild(el)
		}
		contents.AppendChild(pane)
	}
	n.AppendChild(header)
	n.AppendChild(contents)
	return n
}

func tabButtonID(tabID string) string { return tabID + "-tab" }

func (i *Interpreter) renderCheckbox(c ui.Node) *html.Node {
	label := element("label", "class", "a2ui-checkbox")
	input := element("input", "type", "checkbox", "id", c.ID)
	if c.Checked || c.BoolValue() {
		setAttr(input, "checked", "checked")
	}
	if c.Disabled {
		setAttr(input, "disabled", "disabled")
	}
	span := element("span")
	span.AppendChild(textNode(c.Label))
	label.AppendChild(input)
	label.AppendChild(span)
	i.bindAction(input, c.Action)
	return label
}

func renderImage(c ui.Node) *html.Node {
	n := element("img", "id", c.ID, "class", "a2ui-image", "src", c.ImageSource())
	setAttr(n, "alt", c.Alt)
	if c.Width != "" {
		appendStyle(n, "width: "+c.Width)
	}
	if c.Height != "" {
		appendStyle(n, "height: "+c.Height)
	}
	return n
}

func renderIcon(c ui.Node) *html.Node {
	n := element("span", "id", c.ID, "class", "a2ui-icon material-icons")
	if c.Color != "" {
		appendStyle(n, "color: "+c.Color)
	}
	if c.Size != "" {
		appendStyle(n, "font-size: "+c.Size)
	}
	n.AppendChild(textNode(c.IconName()))
	return n
}

// counted reports whether a text field shows a live character counter.
func counted(id string) bool {
	return strings.HasPrefix(id, ui.HeadlineFieldPrefix) || id == ui.ScriptEditorID
}

func charCount(s string) string {
	return fmt.Sprintf("%d characters", utf8.RuneCountInString(s))
}

func (i *Interpreter) renderTextField(c ui.Node) *html.Node {
	box := element("div", "class", "a2ui-textfield-container")
	if c.Label != "" {
		l := element("label", "class", "a2ui-textfield-label", "for", c.ID)
		l.AppendChild(textNode(c.Label))
		box.AppendChild(l)
	}

	value := c.StringValue()
	var input *html.Node
	if c.Multiline {
		input = element("textarea", "id", c.ID, "class", "a2ui-textfield")
		if c.Rows > 0 {
			setAttr(input, "rows", strconv.Itoa(c.Rows))
		}
		input.AppendChild(textNode(value))
	} else {
		typ := c.InputType
		if typ == "" {
			typ = "text"
		}
		input = element("input", "id", c.ID, "class", "a2ui-textfield", "type", typ)
		setAttr(input, "value", value)
	}
	setAttr(input, "placeholder", c.Placeholder)
	if c.Disabled {
		setAttr(input, "disabled", "disabled")
	}
	box.AppendChild(input)

	if counted(c.ID) {
		counter := element("div", "class", "a2ui-textfield-counter")
		counter.AppendChild(textNode(charCount(value)))
		box.AppendChild(counter)
		i.doc.on(input, eventInput, func() {
			v, _ := fieldValue(input)
			setText(counter, charCount(v))
		})
	}
	return box
}

func (i *Interpreter) renderRadio(c ui.Node) *html.Node {
	return i.radio(c.ID, c.RadioName(), c.Label, c.StringValue(), c.Checked, c.Disabled, c.Action)
}

func (i *Interpreter) radio(id, name, label, value string, checked, disabled bool, a *ui.Action) *html.Node {
	box := element("label", "class", "a2ui-radio")
	input := element("input", "type", "radio", "id", id, "name", name)
	setAttr(input, "value", value)
	if checked {
		setAttr(input, "checked", "checked")
	}
	if disabled {
		setAttr(input, "disabled", "disabled")
	}
	span := element("span")
	span.AppendChild(textNode(label))
	box.AppendChild(input)
	box.AppendChild(span)
	i.bindAction(input, a)
	return box
}

type radioItem struct {
	id, label, value string
	checked          bool
	disabled         bool
	action           *ui.Action
}

// radioItems normalises rich Radio children and plain options into one
// list that shares the group's name. Exactly one item ends up checked: the
// first explicitly checked one, else the first.
func radioItems(c ui.Node) []radioItem {
	items := make([]radioItem, 0, len(c.Children)+len(c.Options))
	for idx, child := range c.Children {
		if child.Type != ui.KindRadio {
			items = append(items, radioItem{
				id:    fmt.Sprintf("%s-option-%d", c.ID, idx),
				label: child.TextOr(child.Label),
				value: child.StringValue(),
			})
			continue
		}
		items = append(items, radioItem{
			id:       child.ID,
			label:    child.Label,
			value:    child.StringValue(),
			checked:  child.Checked,
			disabled: child.Disabled,
			action:   child.Action,
		})
	}
	for _, opt := range c.Options {
		items = append(items, radioItem{
			id:      fmt.Sprintf("%s-option-%d", c.ID, len(items)),
			label:   opt.Label,
			value:   opt.Value,
			checked: opt.Checked,
		})
	}

	chosen := 0
	for idx, it := range items {
		if it.checked {
			chosen = idx
			break
		}
	}
	for idx := range items {
		items[idx].checked = idx == chosen
	}
	return items
}

func (i *Interpreter) renderRadioGroup(c ui.Node) *html.Node {
	group := element("div", "id", c.ID, "class", "a2ui-radio-group", "role", "radiogroup")
	if c.Label != "" {
		l := element("div", "class", "a2ui-radio-group-label")
		l.AppendChild(textNode(c.Label))
		group.AppendChild(l)
	}
	name := c.Name
	if name == "" {
		name = c.ID
	}
	for _, it := range radioItems(c) {
		group.AppendChild(i.radio(it.id, name, it.label, it.value, it.checked, it.disabled, it.action))
	}
	return group
}

func (i *Interpreter) renderSlider(c ui.Node) *html.Node {
	box := element("div", "class", "a2ui-slider-container")
	if c.Label != "" {
		l := element("label", "class", "a2ui-slider-label", "for", c.ID)
		l.AppendChild(textNode(c.Label))
		box.AppendChild(l)
	}
	lo, hi, value, step := c.SliderRange()
	wrapper := element("div", "class", "a2ui-slider-wrapper")
	input := element("input",
		"type", "range",
		"id", c.ID,
		"class", "a2ui-slider",
	)
	setAttr(input, "min", formatNumber(lo))
	setAttr(input, "max", formatNumber(hi))
	setAttr(input, "step", formatNumber(step))
	setAttr(input, "value", formatNumber(value))
	if c.Disabled {
		setAttr(input, "disabled", "disabled")
	}
	display := element("span", "class", "a2ui-slider-value")
	display.AppendChild(textNode(formatNumber(value) + c.Unit))

	i.doc.on(input, eventInput, func() {
		v, _ := fieldValue(input)
		setText(display, v+c.Unit)
	})

	wrapper.AppendChild(input)
	wrapper.AppendChild(display)
	box.AppendChild(wrapper)
	return box
}

func renderProgressBar(c ui.Node) *html.Node {
	box := element("div", "id", c.ID, "class", "a2ui-progressbar-container")
	if c.Label != "" {
		l := element("div", "class", "a2ui-progressbar-label")
		l.AppendChild(textNode(c.Label))
		box.AppendChild(l)
	}
	pct := formatNumber(c.Percent()) + "%"
	bar := element("div", "class", "a2ui-progressbar", "role", "progressbar")
	setAttr(bar, "aria-valuenow", formatNumber(c.Percent()))
	fill := element("div", "class", "a2ui-progressbar-fill", "style", "width: "+pct)
	bar.AppendChild(fill)
	box.AppendChild(bar)
	if c.ShowValue {
		v := element("div", "class", "a2ui-progressbar-value")
		v.AppendChild(textNode(pct))
		box.AppendChild(v)
	}
	return box
}

func renderBadge(c ui.Node) *html.Node {
	n := element("span", "id", c.ID, "class", "a2ui-badge a2ui-badge-"+c.VariantOrDefault())
	n.AppendChild(textNode(c.TextOr("")))
	return n
}
