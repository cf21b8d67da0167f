package ui

import "strings"

func Button(id, text string, primary bool, action *Action) Node {
	return Node{
		ID:      strings.TrimSpace(id),
		Type:    KindButton,
		Text:    text,
		Primary: primary,
		Action:  action,
	}
}

// TextField is a single-line input, or a textarea when rows > 0.
func TextField(id, label, value string, rows int) Node {
	return Node{
		ID:        strings.TrimSpace(id),
		Type:      KindTextField,
		Label:     label,
		Value:     StringRaw(value),
		Multiline: rows > 0,
		Rows:      rows,
	}
}

// ColorField is a TextField rendered as a colour picker.
func ColorField(id, label, value string) Node {
	n := TextField(id, label, value, 0)
	n.InputType = "color"
	return n
}

func Checkbox(id, label string, checked bool, action *Action) Node {
	return Node{
		ID:      strings.TrimSpace(id),
		Type:    KindCheckbox,
		Label:   label,
		Checked: checked,
		Action:  action,
	}
}

func Radio(id, label, name, value string, checked bool, action *Action) Node {
	return Node{
		ID:      strings.TrimSpace(id),
		Type:    KindRadio,
		Label:   label,
		Name:    strings.TrimSpace(name),
		Value:   StringRaw(value),
		Checked: checked,
		Action:  action,
	}
}

// RadioGroup builds a group from rich Radio children.
func RadioGroup(id, name, label string, radios ...Node) Node {
	return Node{
		ID:       strings.TrimSpace(id),
		Type:     KindRadioGroup,
		Name:     strings.TrimSpace(name),
		Label:    label,
		Children: radios,
	}
}

// RadioGroupOptions builds a group from plain label/value options.
func RadioGroupOptions(id, name, label string, options ...RadioOption) Node {
	return Node{
		ID:      strings.TrimSpace(id),
		Type:    KindRadioGroup,
		Name:    strings.TrimSpace(name),
		Label:   label,
		Options: options,
	}
}

func Slider(id, label string, min, max, value, step float64) Node {
	return Node{
		ID:        strings.TrimSpace(id),
		Type:      KindSlider,
		Label:     label,
		Min:       floatPtr(min),
		Max:       floatPtr(max),
		Step:      floatPtr(step),
		Value:     NumberRaw(value),
		ShowValue: true,
	}
}
