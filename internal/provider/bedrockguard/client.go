package bedrockguard

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
)

// Client is a Detector backed by the AWS Bedrock ApplyGuardrail API. Guardrail
// content-policy confidences are mapped onto the same severity scale the Azure
// provider uses, so the decision engine sees one shape regardless of provider.
type Client struct {
	client           *bedrockruntime.Client
	guardrailID      string
	guardrailVersion string
}

func NewClient(ctx context.Context, region string, guardrailID string, guardrailVersion string) (*Client, error) {
	if guardrailID == "" {
		return nil, fmt.Errorf("guardrail ID is required")
	}
	if guardrailVersion == "" {
		guardrailVersion = "DRAFT"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		client:           bedrockruntime.NewFromConfig(cfg),
		guardrailID:      guardrailID,
		guardrailVersion: guardrailVersion,
	}, nil
}

func (c *Client) Name() string {
	return "bedrock-guardrails"
}

func (c *Client) Detect(ctx context.Context, media models.MediaType, content string) (*provider.DetectResult, error) {
	block, err := buildContentBlock(media, content)
	if err != nil {
		return nil, err
	}

	out, err := c.client.ApplyGuardrail(ctx, &bedrockruntime.ApplyGuardrailInput{
		GuardrailIdentifier: aws.String(c.guardrailID),
		GuardrailVersion:    aws.String(c.guardrailVersion),
		Source:              types.GuardrailContentSourceInput,
		Content:             []types.GuardrailContentBlock{block},
	})
	if err != nil {
		return nil, &provider.DetectionError{
			Code:    "GuardrailInvokeFailed",
			Message: err.Error(),
		}
	}

	return resultFromAssessments(out.Assessments), nil
}

func buildContentBlock(media models.MediaType, content string) (types.GuardrailContentBlock, error) {
	switch media {
	case models.MediaTypeText:
		return &types.GuardrailContentBlockMemberText{
			Value: types.GuardrailTextBlock{Text: aws.String(content)},
		}, nil
	case models.MediaTypeImage:
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("image content is not valid base64: %w", err)
		}
		return &types.GuardrailContentBlockMemberImage{
			Value: types.GuardrailImageBlock{
				Format: imageFormat(data),
				Source: &types.GuardrailImageSourceMemberBytes{Value: data},
			},
		}, nil
	default:
		return nil, fmt.Errorf("invalid media type %q", media)
	}
}

// Guardrails only accept png and jpeg; anything unrecognized is sent as jpeg
// and left for the service to reject.
func imageFormat(data []byte) types.GuardrailImageFormat {
	if http.DetectContentType(data) == "image/png" {
		return types.GuardrailImageFormatPng
	}
	return types.GuardrailImageFormatJpeg
}

// categoryForFilter maps guardrail content filters onto the gateway's closed
// category set. Misconduct is the closest guardrail analogue of SelfHarm;
// filters with no analogue (insults, prompt attacks) are dropped.
func categoryForFilter(filter types.GuardrailContentFilterType) (models.Category, bool) {
	switch filter {
	case types.GuardrailContentFilterTypeHate:
		return models.CategoryHate, true
	case types.GuardrailContentFilterTypeSexual:
		return models.CategorySexual, true
	case types.GuardrailContentFilterTypeViolence:
		return models.CategoryViolence, true
	case types.GuardrailContentFilterTypeMisconduct:
		return models.CategorySelfHarm, true
	default:
		return "", false
	}
}

func severityForConfidence(confidence types.GuardrailContentFilterConfidence) int {
	switch confidence {
	case types.GuardrailContentFilterConfidenceLow:
		return 2
	case types.GuardrailContentFilterConfidenceMedium:
		return 4
	case types.GuardrailContentFilterConfidenceHigh:
		return 6
	default:
		return 0
	}
}

// resultFromAssessments converts guardrail assessments into the common detect
// result. Every supported category is present; categories the guardrail did
// not flag report severity 0.
func resultFromAssessments(assessments []types.GuardrailAssessment) *provider.DetectResult {
	severities := make(models.SeverityResult, len(models.AllCategories))
	for _, category := range models.AllCategories {
		severities[category] = 0
	}

	for _, assessment := range assessments {
		if assessment.ContentPolicy == nil {
			continue
		}
		for _, filter := range assessment.ContentPolicy.Filters {
			category, ok := categoryForFilter(filter.Type)
			if !ok {
				continue
			}
			severity := severityForConfidence(filter.Confidence)
			if severity > severities[category] {
				severities[category] = severity
			}
		}
	}

	result := &provider.DetectResult{
		CategoriesAnalysis: make([]provider.CategoryAnalysis, 0, len(models.AllCategories)),
	}
	for _, category := range models.AllCategories {
		result.CategoriesAnalysis = append(result.CategoriesAnalysis, provider.CategoryAnalysis{
			Category: string(category),
			Severity: severities[category],
		})
	}
	return result
}
