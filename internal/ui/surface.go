package ui

import "encoding/json"

// Surface is the root wire payload: a renderable tree plus an informational
// state mirror that renderers never read.
type Surface struct {
	Surface   *SurfaceBody `json:"surface,omitempty"`
	DataModel *DataModel   `json:"dataModel,omitempty"`
}

type SurfaceBody struct {
	ID         string `json:"id"`
	Components []Node `json:"components"`
}

type DataModel struct {
	NewsID   string `json:"newsId"`
	Revision int64  `json:"revision,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// NewSurface wraps components into a surface payload.
func NewSurface(id string, components []Node, model *DataModel) Surface {
	if components == nil {
		components = []Node{}
	}
	return Surface{
		Surface:   &SurfaceBody{ID: id, Components: components},
		DataModel: model,
	}
}

// NewsID returns the id mirrored in the data model, or "".
func (s Surface) NewsID() string {
	if s.DataModel == nil {
		return ""
	}
	return s.DataModel.NewsID
}

// Walk visits every node depth-first in document order. Returning false
// from fn stops the walk.
func (s Surface) Walk(fn func(Node) bool) {
	if s.Surface == nil {
		return
	}
	var visit func([]Node) bool
	visit = func(nodes []Node) bool {
		for _, n := range nodes {
			if !fn(n) {
				return false
			}
			if !visit(n.Children) {
				return false
			}
		}
		return true
	}
	visit(s.Surface.Components)
}

// Find returns the last node with the given id.
func (s Surface) Find(id string) (Node, bool) {
	var (
		found Node
		ok    bool
	)
	s.Walk(func(n Node) bool {
		if n.ID == id {
			found, ok = n, true
		}
		return true
	})
	return found, ok
}

func ParseSurface(data []byte) (Surface, error) {
	var s Surface
	if err := json.Unmarshal(data, &s); err != nil {
		return Surface{}, err
	}
	return s, nil
}
