package render

import (
	"golang.org/x/net/html"
)

// wireTabs activates the first header and pane of every Tabs container
// under root and makes each header activate its own pane. Nested Tabs are
// scoped to their own container.
func (i *Interpreter) wireTabs(root *html.Node) {
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasClass(n, "a2ui-tabs") {
			i.wireTabContainer(n)
		}
		return true
	})
}

func (i *Interpreter) wireTabContainer(tabs *html.Node) {
	var header, contents *html.Node
	for _, c := range elementChildren(tabs) {
		switch {
		case hasClass(c, "a2ui-tabs-header"):
			header = c
		case hasClass(c, "a2ui-tabs-contents"):
			contents = c
		}
	}
	if header == nil || contents == nil {
		return
	}
	buttons := elementChildren(header)
	panes := elementChildren(contents)

	activate := func(k int) {
		for idx, b := range buttons {
			if idx == k {
				addClass(b, "active")
			} else {
				removeClass(b, "active")
			}
		}
		for idx, p := range panes {
			if idx == k {
				addClass(p, "active")
			} else {
				removeClass(p, "active")
			}
		}
	}

	activate(0)
	for idx, b := range buttons {
		k := idx
		i.doc.on(b, eventClick, func() { activate(k) })
	}
}

// ActiveTab returns the id of the active pane of the Tabs container with
// id tabsID.
func (d *Document) ActiveTab(tabsID string) (string, bool) {
	tabs := d.ElementByID(tabsID)
	if tabs == nil {
		return "", false
	}
	for _, c := range elementChildren(tabs) {
		if !hasClass(c, "a2ui-tabs-contents") {
			continue
		}
		for _, p := range elementChildren(c) {
			if hasClass(p, "active") {
				id, _ := getAttr(p, "id")
				return id, true
			}
		}
	}
	return "", false
}
