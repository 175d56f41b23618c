package models

import (
	"fmt"
	"time"
)

// MediaType identifies the kind of content sent to the moderation provider.
type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypeImage MediaType = "image"
)

func (m MediaType) Valid() bool {
	return m == MediaTypeText || m == MediaTypeImage
}

// Category is one of the fixed moderation categories supported by the gateway.
// The names match the provider's wire format.
type Category string

const (
	CategoryHate     Category = "Hate"
	CategorySelfHarm Category = "SelfHarm"
	CategorySexual   Category = "Sexual"
	CategoryViolence Category = "Violence"
)

// AllCategories lists every supported category.
var AllCategories = []Category{
	CategoryHate,
	CategorySelfHarm,
	CategorySexual,
	CategoryViolence,
}

// ParseCategory validates a category name.
func ParseCategory(name string) (Category, error) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Action is the moderation outcome for a category, or for the content as a
// whole. Reject outranks Accept.
type Action string

const (
	ActionAccept Action = "Accept"
	ActionReject Action = "Reject"
)

func (a Action) rank() int {
	if a == ActionReject {
		return 1
	}
	return 0
}

// MaxAction returns the more severe of two actions.
func MaxAction(a, b Action) Action {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// SeverityResult maps each category to the severity the provider assigned.
// The scale is provider-defined; the gateway treats it as an opaque ordered
// integer range.
type SeverityResult map[Category]int

// Thresholds maps a category to its rejection threshold. A severity greater
// than or equal to the threshold rejects the content. ThresholdDisabled turns
// rejection off for that category entirely.
type Thresholds map[Category]int

// ThresholdDisabled is the sentinel threshold meaning "never reject".
const ThresholdDisabled = -1

// Decision is the outcome of thresholding a severity result. It is built once
// and never mutated.
type Decision struct {
	SuggestedAction  Action              `json:"suggested_action"`
	ActionByCategory map[Category]Action `json:"action_by_category"`
}

// ModerationRequest is the input accepted over HTTP, the stream worker and the
// MCP tools. Exactly one of Text or ImageContent is set, depending on MediaType.
type ModerationRequest struct {
	RequestID    string    `json:"request_id,omitempty" jsonschema:"description=Optional caller-supplied identifier"`
	MediaType    MediaType `json:"media_type" jsonschema:"required,description=Either text or image"`
	Text         string    `json:"text,omitempty" jsonschema:"description=Text to moderate"`
	ImageContent string    `json:"image_content,omitempty" jsonschema:"description=Base64-encoded image bytes"`
}

// Content returns the payload matching the request's media type.
func (r ModerationRequest) Content() string {
	if r.MediaType == MediaTypeImage {
		return r.ImageContent
	}
	return r.Text
}

// Review is one completed moderation pass over a piece of content.
type Review struct {
	ID               string              `json:"id"`
	MediaType        MediaType           `json:"media_type"`
	ContentHash      string              `json:"content_hash"`
	Provider         string              `json:"provider"`
	SuggestedAction  Action              `json:"suggested_action"`
	ActionByCategory map[Category]Action `json:"action_by_category"`
	Severities       SeverityResult      `json:"severities"`
	Cached           bool                `json:"cached"`
	Duration         time.Duration       `json:"duration_ns"`
	CreatedAt        time.Time           `json:"created_at"`
}
