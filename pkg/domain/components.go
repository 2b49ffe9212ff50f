package domain

import (
	"fmt"
	"strings"
)

// Component limits, per the Discord message component documentation
const (
	MaxButtonLabelLength = 80
	MaxButtons           = 5
	MaxSelectOptions     = 25
)

// Discord component type discriminators
const (
	componentTypeActionRow  = 1
	componentTypeButton     = 2
	componentTypeSelectMenu = 3
)

// ButtonStyle names a Discord button style.
type ButtonStyle string

const (
	ButtonStylePrimary   ButtonStyle = "primary"
	ButtonStyleSecondary ButtonStyle = "secondary"
	ButtonStyleSuccess   ButtonStyle = "success"
	ButtonStyleDanger    ButtonStyle = "danger"
	ButtonStyleLink      ButtonStyle = "link"
)

// Code returns the numeric style code used on the wire. Unknown styles
// fall back to primary.
func (s ButtonStyle) Code() int {
	switch s {
	case ButtonStylePrimary:
		return 1
	case ButtonStyleSecondary:
		return 2
	case ButtonStyleSuccess:
		return 3
	case ButtonStyleDanger:
		return 4
	case ButtonStyleLink:
		return 5
	default:
		return 1
	}
}

// MessageButton is an interactive button attached to a message. Only
// link-style buttons function through a webhook; the other styles need a
// bot backend listening for the derived custom_id.
type MessageButton struct {
	Label    string      `json:"label"`
	URL      string      `json:"url"`
	Style    ButtonStyle `json:"style"`
	Emoji    string      `json:"emoji"`
	Disabled bool        `json:"disabled"`
}

// CustomID derives the server-side identifier for a non-link button from
// its label: lowercased, spaces replaced with underscores. Two buttons
// with the same label collide; that is an accepted limitation.
func (b *MessageButton) CustomID() string {
	return "btn_" + strings.ReplaceAll(strings.ToLower(b.Label), " ", "_")
}

// Validate returns all violations of the button constraints.
func (b *MessageButton) Validate() []string {
	var errors []string
	if b.Label == "" {
		errors = append(errors, "Button label is required")
	}
	if len(b.Label) > MaxButtonLabelLength {
		errors = append(errors, fmt.Sprintf("Button label too long (%d/%d)", len(b.Label), MaxButtonLabelLength))
	}
	if b.Style == ButtonStyleLink && b.URL == "" {
		errors = append(errors, "Link buttons require a URL")
	}
	return errors
}

// WirePayload maps the button to its Discord component object. Link
// buttons carry a URL and no identifier; every other style carries the
// derived identifier and no URL. A link button without a URL cannot be
// emitted as style 5, so it degrades to the primary interactive shape.
func (b *MessageButton) WirePayload() ComponentPayload {
	payload := ComponentPayload{
		Type:  componentTypeButton,
		Label: b.Label,
	}

	if b.Style == ButtonStyleLink && b.URL != "" {
		payload.Style = ButtonStyleLink.Code()
		payload.URL = b.URL
	} else {
		style := b.Style
		if style == ButtonStyleLink {
			style = ButtonStylePrimary
		}
		payload.Style = style.Code()
		payload.CustomID = b.CustomID()
	}

	if emoji := strings.TrimSpace(b.Emoji); emoji != "" {
		payload.Emoji = &EmojiPayload{Name: emoji}
	}

	payload.Disabled = b.Disabled

	return payload
}

// SelectOption is a single entry of a select menu.
type SelectOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Default     bool   `json:"default"`
}

// EffectiveValue returns the option value, deriving it from the label the
// same way button identifiers are derived when it was never set.
func (o *SelectOption) EffectiveValue() string {
	if o.Value != "" {
		return o.Value
	}
	return strings.ReplaceAll(strings.ToLower(o.Label), " ", "_")
}

// WirePayload maps the option to its Discord object.
func (o *SelectOption) WirePayload() SelectOptionPayload {
	payload := SelectOptionPayload{
		Label:       o.Label,
		Value:       o.EffectiveValue(),
		Description: o.Description,
		Default:     o.Default,
	}
	if o.Emoji != "" {
		payload.Emoji = &EmojiPayload{Name: o.Emoji}
	}
	return payload
}

// SelectMenu is a dropdown component with up to 25 options.
type SelectMenu struct {
	Placeholder string         `json:"placeholder"`
	Options     []SelectOption `json:"options"`
	MinValues   int            `json:"min_values"`
	MaxValues   int            `json:"max_values"`
}

// Validate returns all violations of the select menu constraints.
func (m *SelectMenu) Validate() []string {
	var errors []string
	if len(m.Options) == 0 {
		errors = append(errors, "Select menu must have at least one option")
	}
	if len(m.Options) > MaxSelectOptions {
		errors = append(errors, fmt.Sprintf("Too many options (%d/%d)", len(m.Options), MaxSelectOptions))
	}
	return errors
}

// WirePayload maps the menu to its Discord component object. A message
// carries at most one menu, so the identifier is fixed.
func (m *SelectMenu) WirePayload() ComponentPayload {
	minValues := m.MinValues
	maxValues := m.MaxValues
	options := make([]SelectOptionPayload, len(m.Options))
	for i := range m.Options {
		options[i] = m.Options[i].WirePayload()
	}

	return ComponentPayload{
		Type:        componentTypeSelectMenu,
		CustomID:    "select_menu",
		Placeholder: m.Placeholder,
		MinValues:   &minValues,
		MaxValues:   &maxValues,
		Options:     options,
	}
}

// ComponentSet is the session-level collection of interactive components.
// It is a sibling of the embed, not part of it, and is not persisted with
// history or templates.
type ComponentSet struct {
	Buttons    []MessageButton `json:"buttons"`
	SelectMenu *SelectMenu     `json:"select_menu"`
}

// IsEmpty reports whether the set carries no components at all.
func (s *ComponentSet) IsEmpty() bool {
	return len(s.Buttons) == 0 && s.SelectMenu == nil
}

// Validate aggregates the violations of every component in the set.
// Button violations are prefixed with their 1-based position.
func (s *ComponentSet) Validate() []string {
	var errors []string
	if len(s.Buttons) > MaxButtons {
		errors = append(errors, fmt.Sprintf("Too many buttons (%d/%d)", len(s.Buttons), MaxButtons))
	}
	for i, b := range s.Buttons {
		for _, err := range b.Validate() {
			errors = append(errors, fmt.Sprintf("Button %d: %s", i+1, err))
		}
	}
	if s.SelectMenu != nil {
		errors = append(errors, s.SelectMenu.Validate()...)
	}
	return errors
}

// ActionRows serializes the set as Discord action rows: one row holding
// the buttons, one holding the select menu.
func (s *ComponentSet) ActionRows() []ActionRowPayload {
	var rows []ActionRowPayload

	if len(s.Buttons) > 0 {
		row := ActionRowPayload{Type: componentTypeActionRow}
		row.Components = make([]ComponentPayload, len(s.Buttons))
		for i := range s.Buttons {
			row.Components[i] = s.Buttons[i].WirePayload()
		}
		rows = append(rows, row)
	}

	if s.SelectMenu != nil {
		rows = append(rows, ActionRowPayload{
			Type:       componentTypeActionRow,
			Components: []ComponentPayload{s.SelectMenu.WirePayload()},
		})
	}

	return rows
}

// ActionRowPayload is a wire action row wrapping interactive components.
type ActionRowPayload struct {
	Type       int                `json:"type"`
	Components []ComponentPayload `json:"components"`
}

// ComponentPayload is the wire object for a button or select menu; the
// Type discriminator decides which fields are meaningful.
type ComponentPayload struct {
	Type     int           `json:"type"`
	Label    string        `json:"label,omitempty"`
	Style    int           `json:"style,omitempty"`
	CustomID string        `json:"custom_id,omitempty"`
	URL      string        `json:"url,omitempty"`
	Emoji    *EmojiPayload `json:"emoji,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`

	Placeholder string                `json:"placeholder,omitempty"`
	MinValues   *int                  `json:"min_values,omitempty"`
	MaxValues   *int                  `json:"max_values,omitempty"`
	Options     []SelectOptionPayload `json:"options,omitempty"`
}

// EmojiPayload names a unicode emoji on a component.
type EmojiPayload struct {
	Name string `json:"name"`
}

// SelectOptionPayload is the wire object for a select menu option.
type SelectOptionPayload struct {
	Label       string        `json:"label"`
	Value       string        `json:"value"`
	Description string        `json:"description,omitempty"`
	Emoji       *EmojiPayload `json:"emoji,omitempty"`
	Default     bool          `json:"default,omitempty"`
}
