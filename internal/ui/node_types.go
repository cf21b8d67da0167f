package ui

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind tags a Node and selects both its attribute set and its renderer.
type Kind string

const (
	KindCard   Kind = "Card"
	KindRow    Kind = "Row"
	KindColumn Kind = "Column"
	KindList   Kind = "List"
	KindTabs   Kind = "Tabs"
	KindTab    Kind = "Tab"

	KindText        Kind = "Text"
	KindButton      Kind = "Button"
	KindDivider     Kind = "Divider"
	KindCheckbox    Kind = "Checkbox"
	KindImage       Kind = "Image"
	KindIcon        Kind = "Icon"
	KindTextField   Kind = "TextField"
	KindRadio       Kind = "Radio"
	KindRadioGroup  Kind = "RadioGroup"
	KindSlider      Kind = "Slider"
	KindProgressBar Kind = "ProgressBar"
	KindBadge       Kind = "Badge"
)

// Known reports whether k belongs to the closed component vocabulary.
func (k Kind) Known() bool {
	switch k {
	case KindCard, KindRow, KindColumn, KindList, KindTabs, KindTab,
		KindText, KindButton, KindDivider, KindCheckbox, KindImage, KindIcon,
		KindTextField, KindRadio, KindRadioGroup, KindSlider, KindProgressBar, KindBadge:
		return true
	default:
		return false
	}
}

// Container reports whether nodes of this kind carry children.
// RadioGroup is a leaf that may still hold Radio children as options.
func (k Kind) Container() bool {
	switch k {
	case KindCard, KindRow, KindColumn, KindList, KindTabs, KindTab:
		return true
	default:
		return false
	}
}

// Node is one element of the declarative tree. Attributes are the union of
// every kind's optional set; each kind reads only its own.
type Node struct {
	ID       string `json:"id"`
	Type     Kind   `json:"type"`
	Children []Node `json:"children,omitempty"`

	Text        string          `json:"text,omitempty"`
	Hint        string          `json:"hint,omitempty"`
	Label       string          `json:"label,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Multiline   bool            `json:"multiline,omitempty"`
	Rows        int             `json:"rows,omitempty"`
	InputType   string          `json:"inputType,omitempty"`
	Disabled    bool            `json:"disabled,omitempty"`

	Name    string        `json:"name,omitempty"`
	Checked bool          `json:"checked,omitempty"`
	Options []RadioOption `json:"options,omitempty"`

	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Step      *float64 `json:"step,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	ShowValue bool     `json:"showValue,omitempty"`

	Variant string `json:"variant,omitempty"`
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Icon    string `json:"icon,omitempty"`

	URL    string `json:"url,omitempty"`
	Src    string `json:"src,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`

	Distribution string  `json:"distribution,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Primary      bool    `json:"primary,omitempty"`

	Action *Action `json:"action,omitempty"`
}

// RadioOption is the plain option shape accepted by RadioGroup. It decodes
// from either {"label","value","checked"} or a bare string.
type RadioOption struct {
	Label   string `json:"label,omitempty"`
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

func (o *RadioOption) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Label, o.Value, o.Checked = s, s, false
		return nil
	}
	type plain RadioOption
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = RadioOption(p)
	if o.Label == "" {
		o.Label = o.Value
	}
	if o.Value == "" {
		o.Value = o.Label
	}
	return nil
}

// StringValue returns Value as text. Numbers and booleans are formatted,
// absent or null values are "".
func (n Node) StringValue() string {
	raw := strings.TrimSpace(string(n.Value))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Value, &s); err == nil {
		return s
	}
	return raw
}

// BoolValue returns Value as a boolean; anything but true is false.
func (n Node) BoolValue() bool {
	var b bool
	if err := json.Unmarshal(n.Value, &b); err != nil {
		return false
	}
	return b
}

// NumberValue returns Value as a number, reporting whether one was present.
func (n Node) NumberValue() (float64, bool) {
	var f float64
	if err := json.Unmarshal(n.Value, &f); err == nil {
		return f, true
	}
	if s := n.StringValue(); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func (n Node) TextOr(def string) string {
	if n.Text != "" {
		return n.Text
	}
	if n.Label != "" && n.Type == KindBadge {
		return n.Label
	}
	return def
}

func (n Node) HintOrDefault() string {
	if strings.TrimSpace(n.Hint) == "" {
		return "body"
	}
	return n.Hint
}

func (n Node) IconName() string {
	if n.Icon != "" && n.Name == "" {
		return n.Icon
	}
	if n.Name == "" {
		return "info"
	}
	return n.Name
}

func (n Node) VariantOrDefault() string {
	if n.Variant == "" {
		return "default"
	}
	return n.Variant
}

func (n Node) RadioName() string {
	if n.Name == "" {
		return "radio-group"
	}
	return n.Name
}

func (n Node) ImageSource() string {
	if n.URL != "" {
		return n.URL
	}
	return n.Src
}

// SliderRange returns min, max, value and step with the documented
// defaults 0, 100, 50 and 1.
func (n Node) SliderRange() (lo, hi, value, step float64) {
	lo, hi, value, step = 0, 100, 50, 1
	if n.Min != nil {
		lo = *n.Min
	}
	if n.Max != nil {
		hi = *n.Max
	}
	if n.Step != nil && *n.Step > 0 {
		step = *n.Step
	}
	if v, ok := n.NumberValue(); ok {
		value = v
	}
	return lo, hi, value, step
}

// Percent is the ProgressBar value, defaulting to 0.
func (n Node) Percent() float64 {
	v, _ := n.NumberValue()
	return v
}
