package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/reviewer"
)

// ModerateTextInput is the MCP tool input schema for text moderation.
type ModerateTextInput struct {
	RequestID string `json:"request_id,omitempty" jsonschema:"optional caller-supplied identifier"`
	Text      string `json:"text" jsonschema:"text to moderate"`
}

// ModerateImageInput is the MCP tool input schema for image moderation.
type ModerateImageInput struct {
	RequestID    string `json:"request_id,omitempty" jsonschema:"optional caller-supplied identifier"`
	ImageContent string `json:"image_content" jsonschema:"base64-encoded image bytes"`
}

// ModerateOutput is the decision returned by both tools.
type ModerateOutput struct {
	ReviewID         string                            `json:"review_id"`
	SuggestedAction  models.Action                     `json:"suggested_action"`
	ActionByCategory map[models.Category]models.Action `json:"action_by_category"`
	Severities       models.SeverityResult             `json:"severities"`
}

// NewModerateTextHandler returns a tool handler that moderates text through
// the given reviewer. Pass the returned function to mcp.AddTool.
func NewModerateTextHandler(rev *reviewer.Reviewer) func(context.Context, *mcp.CallToolRequest, ModerateTextInput) (*mcp.CallToolResult, ModerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ModerateTextInput) (*mcp.CallToolResult, ModerateOutput, error) {
		return moderate(ctx, rev, models.MediaTypeText, input.Text)
	}
}

// NewModerateImageHandler returns a tool handler that moderates a base64
// image through the given reviewer.
func NewModerateImageHandler(rev *reviewer.Reviewer) func(context.Context, *mcp.CallToolRequest, ModerateImageInput) (*mcp.CallToolResult, ModerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ModerateImageInput) (*mcp.CallToolResult, ModerateOutput, error) {
		return moderate(ctx, rev, models.MediaTypeImage, input.ImageContent)
	}
}

func moderate(ctx context.Context, rev *reviewer.Reviewer, media models.MediaType, content string) (*mcp.CallToolResult, ModerateOutput, error) {
	review, err := rev.Review(ctx, media, content)
	if err != nil {
		return nil, ModerateOutput{}, err
	}

	return nil, ModerateOutput{
		ReviewID:         review.ID,
		SuggestedAction:  review.SuggestedAction,
		ActionByCategory: review.ActionByCategory,
		Severities:       review.Severities,
	}, nil
}
