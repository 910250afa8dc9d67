package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

func init() {
	Register("openai_sdk", NewOpenAISDK)
}

// OpenAISDK delegates HTTP construction to the go-openai client. Failures
// are classified from the client's structured status code where it exposes
// one, with a message sniff kept only for wrapped errors that lost the type.
type OpenAISDK struct {
	config *Config
	client *openai.Client
}

func NewOpenAISDK(cfg *Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAISDK{
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (o *OpenAISDK) Name() string {
	return "openai_sdk"
}

func (o *OpenAISDK) Analyze(ctx context.Context, req Request) (string, error) {
	dataURI := fmt.Sprintf(
		"data:%s;base64,%s",
		req.MimeType,
		base64.StdEncoding.EncodeToString(req.Image),
	)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.ModelName,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Question,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
				},
			},
		},
		Temperature: float32(o.config.Temperature),
		TopP:        float32(o.config.TopP),
	})
	if err != nil {
		return "", classifySDKError(err)
	}

	// Missing fields degrade to an empty answer rather than failing the
	// request.
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func classifySDKError(err error) *Error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case strings.Contains(err.Error(), "HTTP 429"):
		status = http.StatusTooManyRequests
	}

	return &Error{
		StatusCode: status,
		Op:         "openai_sdk.analyze",
		Message:    "chat completion call failed",
		Cause:      err,
	}
}
