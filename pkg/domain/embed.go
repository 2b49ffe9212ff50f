package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Discord embed limits, per the webhook API documentation
const (
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MaxFooterLength      = 2048
	MaxAuthorLength      = 256
	MaxFields            = 25
	MaxFieldNameLength   = 256
	MaxFieldValueLength  = 1024
)

// EmbedField is a named key/value pair rendered inside an embed. Position
// in the embed's field list is significant: insertion order is display
// order, and inline fields group three per row.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Validate returns all violations of the field limits as human-readable
// strings. An empty slice means the field is valid.
func (f *EmbedField) Validate() []string {
	var errors []string
	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Field name cannot be empty")
	}
	if len(f.Name) > MaxFieldNameLength {
		errors = append(errors, fmt.Sprintf("Field name too long (%d/%d)", len(f.Name), MaxFieldNameLength))
	}
	if strings.TrimSpace(f.Value) == "" {
		errors = append(errors, "Field value cannot be empty")
	}
	if len(f.Value) > MaxFieldValueLength {
		errors = append(errors, fmt.Sprintf("Field value too long (%d/%d)", len(f.Value), MaxFieldValueLength))
	}
	return errors
}

// Embed is the aggregate root of the data model: the full editor state of
// a single embed. The stored JSON representation is this struct's tags;
// the Discord wire representation is produced by WirePayload.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	URL         string       `json:"url"`
	Footer      string       `json:"footer"`
	FooterIcon  string       `json:"footer_icon"`
	Author      string       `json:"author"`
	AuthorIcon  string       `json:"author_icon"`
	AuthorURL   string       `json:"author_url"`
	Thumbnail   string       `json:"thumbnail"`
	Image       string       `json:"image"`
	Timestamp   bool         `json:"timestamp"`
	Fields      []EmbedField `json:"fields"`
}

// Validate aggregates all limit violations for the embed and its fields.
// Field violations are prefixed with their 1-based position. Callers get
// the complete list; nothing short-circuits.
func (e *Embed) Validate() []string {
	var errors []string
	if e.Title != "" && len(e.Title) > MaxTitleLength {
		errors = append(errors, fmt.Sprintf("Title too long (%d/%d)", len(e.Title), MaxTitleLength))
	}
	if e.Description != "" && len(e.Description) > MaxDescriptionLength {
		errors = append(errors, fmt.Sprintf("Description too long (%d/%d)", len(e.Description), MaxDescriptionLength))
	}
	if e.Footer != "" && len(e.Footer) > MaxFooterLength {
		errors = append(errors, fmt.Sprintf("Footer too long (%d/%d)", len(e.Footer), MaxFooterLength))
	}
	if e.Author != "" && len(e.Author) > MaxAuthorLength {
		errors = append(errors, fmt.Sprintf("Author too long (%d/%d)", len(e.Author), MaxAuthorLength))
	}
	if e.Color != "" && !isHexColor(e.Color) {
		errors = append(errors, fmt.Sprintf("Invalid color %q (expected #RRGGBB)", e.Color))
	}
	if len(e.Fields) > MaxFields {
		errors = append(errors, fmt.Sprintf("Too many fields (%d/%d)", len(e.Fields), MaxFields))
	}

	for i, f := range e.Fields {
		for _, err := range f.Validate() {
			errors = append(errors, fmt.Sprintf("Field %d: %s", i+1, err))
		}
	}

	return errors
}

// Clone returns a deep copy of the embed, used for history snapshots so
// later edits to the current embed do not rewrite the past. A nil
// receiver clones to nil.
func (e *Embed) Clone() *Embed {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Fields != nil {
		clone.Fields = make([]EmbedField, len(e.Fields))
		copy(clone.Fields, e.Fields)
	}
	return &clone
}

// WirePayload projects the embed into the Discord API shape. The mapping
// is deterministic apart from the timestamp, which is stamped with the
// current UTC time on every call when the flag is set. Blank optional
// values never produce a key, and URL-bearing values are silently dropped
// unless they carry an http(s) scheme.
func (e *Embed) WirePayload() EmbedPayload {
	payload := EmbedPayload{
		Title:       e.Title,
		Description: e.Description,
	}

	if hasHTTPScheme(e.URL) {
		payload.URL = e.URL
	}

	if e.Color != "" {
		color := parseHexColor(e.Color)
		payload.Color = &color
	}

	if e.Footer != "" || hasHTTPScheme(e.FooterIcon) {
		footer := &EmbedFooterPayload{Text: e.Footer}
		if hasHTTPScheme(e.FooterIcon) {
			footer.IconURL = e.FooterIcon
		}
		payload.Footer = footer
	}

	if e.Author != "" || hasHTTPScheme(e.AuthorIcon) || hasHTTPScheme(e.AuthorURL) {
		author := &EmbedAuthorPayload{Name: e.Author}
		if hasHTTPScheme(e.AuthorIcon) {
			author.IconURL = e.AuthorIcon
		}
		if hasHTTPScheme(e.AuthorURL) {
			author.URL = e.AuthorURL
		}
		payload.Author = author
	}

	if hasHTTPScheme(e.Thumbnail) {
		payload.Thumbnail = &EmbedImagePayload{URL: e.Thumbnail}
	}
	if hasHTTPScheme(e.Image) {
		payload.Image = &EmbedImagePayload{URL: e.Image}
	}

	if e.Timestamp {
		payload.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	if len(e.Fields) > 0 {
		payload.Fields = make([]EmbedFieldPayload, len(e.Fields))
		for i, f := range e.Fields {
			payload.Fields[i] = EmbedFieldPayload{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			}
		}
	}

	return payload
}

// hasHTTPScheme reports whether s is usable as a Discord URL value.
func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// isHexColor reports whether s is a #RRGGBB color string.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// parseHexColor converts a #RRGGBB string to its 24-bit integer value.
// Anything unparsable projects to 0; Validate flags malformed colors
// before they get here.
func parseHexColor(s string) int {
	if !strings.HasPrefix(s, "#") {
		return 0
	}
	value, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(value)
}
