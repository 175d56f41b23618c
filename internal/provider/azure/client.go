package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
	"github.com/sumersovitkargit/content-safety-gateway/internal/provider"
)

const DefaultAPIVersion = "2024-09-01"

// Client calls the Azure AI Content Safety analyze endpoints.
type Client struct {
	endpoint        string
	subscriptionKey string
	apiVersion      string
	httpClient      *http.Client
}

func NewClient(endpoint string, subscriptionKey string, apiVersion string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("content safety endpoint is required")
	}
	if subscriptionKey == "" {
		return nil, fmt.Errorf("content safety subscription key is required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint:        strings.TrimRight(endpoint, "/"),
		subscriptionKey: subscriptionKey,
		apiVersion:      apiVersion,
		httpClient:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string {
	return "azure-content-safety"
}

type imageBody struct {
	Content string `json:"content"`
}

type analyzeRequest struct {
	Text  string     `json:"text,omitempty"`
	Image *imageBody `json:"image,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// Detect sends content to the analyze endpoint matching the media type and
// parses the per-category severities. Non-200 responses become a
// *provider.DetectionError; no retry is attempted.
func (c *Client) Detect(ctx context.Context, media models.MediaType, content string) (*provider.DetectResult, error) {
	url, err := c.buildURL(media)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildRequestBody(media, content))
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseDetectionError(resp.StatusCode, respBody)
	}

	var result provider.DetectResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	return &result, nil
}

func (c *Client) buildURL(media models.MediaType) (string, error) {
	switch media {
	case models.MediaTypeText:
		return fmt.Sprintf("%s/contentsafety/text:analyze?api-version=%s", c.endpoint, c.apiVersion), nil
	case models.MediaTypeImage:
		return fmt.Sprintf("%s/contentsafety/image:analyze?api-version=%s", c.endpoint, c.apiVersion), nil
	default:
		return "", fmt.Errorf("invalid media type %q", media)
	}
}

func buildRequestBody(media models.MediaType, content string) analyzeRequest {
	if media == models.MediaTypeImage {
		return analyzeRequest{Image: &imageBody{Content: content}}
	}
	return analyzeRequest{Text: content}
}

func parseDetectionError(status int, body []byte) error {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Code != "" {
		return &provider.DetectionError{
			Code:    parsed.Error.Code,
			Message: parsed.Error.Message,
		}
	}

	return &provider.DetectionError{
		Code:    fmt.Sprintf("HTTP_%d", status),
		Message: strings.TrimSpace(string(body)),
	}
}
