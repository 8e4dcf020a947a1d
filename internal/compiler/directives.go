package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/espalier-dev/espalier/pkg/config"
)

// Directives are the per-node overrides parsed from the node's stage
// directions field. Options not set there fall back to the run's settings.
type Directives struct {
	// Label replaces the generated prefix+id label.
	Label string
	// Speaker overrides the speaker with a literal display name.
	Speaker string
	// Before and After are script fragments placed around the quoted text of
	// a say statement, for attribute or transition syntax.
	Before string
	After  string

	// ChoiceIndex orders this node among its sibling menu entries.
	ChoiceIndex    int
	HasChoiceIndex bool

	DisplayTextBox bool
	RepeatMenuText bool
	Markdown       bool
	BracesImg      bool
}

// directiveSpec describes one option: exactly one setter is non-nil and
// fixes the option's type.
type directiveSpec struct {
	setString func(*Directives, string)
	setBool   func(*Directives, bool)
	setInt    func(*Directives, int)
}

var directiveSchema = map[string]directiveSpec{
	"label":   {setString: func(d *Directives, v string) { d.Label = v }},
	"speaker": {setString: func(d *Directives, v string) { d.Speaker = v }},
	"before":  {setString: func(d *Directives, v string) { d.Before = v }},
	"after":   {setString: func(d *Directives, v string) { d.After = v }},
	"choice_index": {setInt: func(d *Directives, v int) {
		d.ChoiceIndex = v
		d.HasChoiceIndex = true
	}},
	"display_text_box": {setBool: func(d *Directives, v bool) { d.DisplayTextBox = v }},
	"repeat_menu_text": {setBool: func(d *Directives, v bool) { d.RepeatMenuText = v }},
	"markdown":         {setBool: func(d *Directives, v bool) { d.Markdown = v }},
	"braces_img":       {setBool: func(d *Directives, v bool) { d.BracesImg = v }},
}

// directiveParser resolves directive strings against the run's defaults.
type directiveParser struct {
	defaults Directives
}

func newDirectiveParser(set *config.Settings) *directiveParser {
	return &directiveParser{defaults: Directives{
		DisplayTextBox: set.MenuDisplayTextBox,
		RepeatMenuText: set.RepeatMenuText,
		Markdown:       set.MarkdownTextStyles,
		BracesImg:      set.RelativeImgsInBraces,
	}}
}

// Parse resolves one directive string. Unknown keys and malformed values
// are reported as messages, never as errors: the returned set is always
// usable, with the offending options left at their defaults.
func (p *directiveParser) Parse(raw string) (Directives, []string) {
	d := p.defaults
	var msgs []string
	for _, seg := range config.SplitList(raw) {
		key, value, hasValue := cutDirective(seg)
		spec, known := directiveSchema[key]
		if !known {
			msgs = append(msgs, fmt.Sprintf("unknown directive %q", key))
			continue
		}
		switch {
		case spec.setString != nil:
			if !hasValue {
				msgs = append(msgs, fmt.Sprintf("directive %q requires a value", key))
				continue
			}
			spec.setString(&d, value)
		case spec.setInt != nil:
			if !hasValue {
				msgs = append(msgs, fmt.Sprintf("directive %q requires a value", key))
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				msgs = append(msgs, fmt.Sprintf("directive %q: %q is not a number", key, value))
				continue
			}
			spec.setInt(&d, n)
		case spec.setBool != nil:
			if !hasValue {
				// A bare boolean key switches the option on.
				spec.setBool(&d, true)
				continue
			}
			b, err := strconv.ParseBool(strings.ToLower(value))
			if err != nil {
				msgs = append(msgs, fmt.Sprintf("directive %q: %q is not a boolean", key, value))
				continue
			}
			spec.setBool(&d, b)
		}
	}
	return d, msgs
}

// cutDirective splits one "key=value" segment on the first unquoted equals
// sign. The key is lowercased, the value unquoted.
func cutDirective(seg string) (key, value string, hasValue bool) {
	parts := config.SplitTop(seg, '=')
	key = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) == 1 {
		return key, "", false
	}
	value = config.Unquote(strings.TrimSpace(strings.Join(parts[1:], "=")))
	return key, value, true
}
