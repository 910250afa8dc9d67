package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

func init() {
	Register("openai", NewOpenAI)
}

// OpenAI talks to the chat-completions API directly: the image travels as an
// image_url content part holding a base64 data URI, with Bearer auth.
type OpenAI struct {
	config *Config
	client *resty.Client
}

func NewOpenAI(cfg *Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultOpenAIModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetAuthToken(cfg.APIKey)

	return &OpenAI{config: cfg, client: client}, nil
}

func (o *OpenAI) Name() string {
	return "openai"
}

type openaiChatRequest struct {
	Model     string          `json:"model"`
	Messages  []openaiMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openaiMessage struct {
	Role    string              `json:"role"`
	Content []openaiContentPart `json:"content"`
}

type openaiContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Analyze(ctx context.Context, req Request) (string, error) {
	dataURI := fmt.Sprintf(
		"data:%s;base64,%s",
		req.MimeType,
		base64.StdEncoding.EncodeToString(req.Image),
	)

	payload := openaiChatRequest{
		Model:     o.config.ModelName,
		MaxTokens: o.config.MaxTokens,
		Messages: []openaiMessage{
			{
				Role: "user",
				Content: []openaiContentPart{
					{Type: "text", Text: req.Question},
					{Type: "image_url", ImageURL: &openaiImageURL{URL: dataURI}},
				},
			},
		},
	}

	var parsed openaiChatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&parsed).
		Post("/chat/completions")
	if err != nil {
		return "", &Error{Op: "openai.analyze", Message: "chat completion call failed", Cause: err}
	}
	if resp.IsError() {
		return "", &Error{
			StatusCode: resp.StatusCode(),
			Op:         "openai.analyze",
			Message:    fmt.Sprintf("chat completion returned %s", resp.Status()),
		}
	}

	// Missing fields degrade to an empty answer rather than failing the
	// request.
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
