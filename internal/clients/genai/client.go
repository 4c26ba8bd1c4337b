// Package genai provides a client for the generative model used to read cover photos,
// estimate prices and complete missing metadata. Every answer is requested as JSON and
// checked against the expected shape before it leaves this package.
package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 2048
)

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is the generative model client.
type Client struct {
	client *resty.Client
	model  string
	log    zerolog.Logger
}

// NewClient creates a new generative model client.
func NewClient(baseURL, apiKey, model string, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(90*time.Second).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client: client,
		model:  model,
		log:    log.With().Str("client", "genai").Logger(),
	}
}

// complete sends one user turn and returns the concatenated text of the reply.
func (c *Client) complete(ctx context.Context, operation, system string, content []contentBlock) (string, error) {
	defer utils.OperationTimer(operation, c.log)()

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(messagesPath)
	if err != nil {
		return "", fmt.Errorf("generative request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("generative API error: status %d, %s: %s", resp.StatusCode(), apiErr.Error.Type, apiErr.Error.Message)
		}
		return "", fmt.Errorf("generative API error: status %d", resp.StatusCode())
	}

	var out messagesResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty reply (stop reason %q)", domain.ErrMalformedResponse, out.StopReason)
	}

	return sb.String(), nil
}

// extractJSON returns the outermost JSON object in text, ignoring prose and code fences around it.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedResponse)
	}
	return text[start : end+1], nil
}

func textBlock(text string) contentBlock {
	return contentBlock{Type: "text", Text: text}
}

func imageBlock(image []byte, mediaType string) contentBlock {
	return contentBlock{
		Type: "image",
		Source: &imageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64.StdEncoding.EncodeToString(image),
		},
	}
}
