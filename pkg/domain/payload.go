package domain

// EmbedPayload is the Discord wire representation of an embed. All fields
// are optional on the wire; absent values must not produce keys, which is
// why object-valued and zero-ambiguous fields are pointers.
type EmbedPayload struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Color       *int                `json:"color,omitempty"`
	Footer      *EmbedFooterPayload `json:"footer,omitempty"`
	Author      *EmbedAuthorPayload `json:"author,omitempty"`
	Thumbnail   *EmbedImagePayload  `json:"thumbnail,omitempty"`
	Image       *EmbedImagePayload  `json:"image,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []EmbedFieldPayload `json:"fields,omitempty"`
}

// EmbedFooterPayload is the footer object of a wire embed.
type EmbedFooterPayload struct {
	Text    string `json:"text,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedAuthorPayload is the author object of a wire embed.
type EmbedAuthorPayload struct {
	Name    string `json:"name,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
	URL     string `json:"url,omitempty"`
}

// EmbedImagePayload carries the URL of a thumbnail or main image.
type EmbedImagePayload struct {
	URL string `json:"url"`
}

// EmbedFieldPayload is a wire embed field. Inline is always emitted.
type EmbedFieldPayload struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// MessagePayload is the full webhook POST body: one embed plus optional
// sender identity overrides and interactive components.
type MessagePayload struct {
	Embeds     []EmbedPayload     `json:"embeds"`
	Username   string             `json:"username,omitempty"`
	AvatarURL  string             `json:"avatar_url,omitempty"`
	Components []ActionRowPayload `json:"components,omitempty"`
}

// NewMessagePayload builds the dispatch payload for a single embed.
// Username and avatar URL are included only when non-blank; components
// are attached as action rows when the set is non-empty.
func NewMessagePayload(embed *Embed, username, avatarURL string, components *ComponentSet) MessagePayload {
	payload := MessagePayload{
		Embeds:    []EmbedPayload{embed.WirePayload()},
		Username:  username,
		AvatarURL: avatarURL,
	}
	if components != nil {
		payload.Components = components.ActionRows()
	}
	return payload
}
