package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

func init() {
	Register("gemini", NewGemini)
}

// Gemini talks to the generateContent API directly: the image travels as an
// inline-data part and the key as a query parameter.
type Gemini struct {
	config *Config
	client *resty.Client
}

func NewGemini(cfg *Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultGeminiModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout)

	return &Gemini{config: cfg, client: client}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inline_data,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Analyze(ctx context.Context, req Request) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{Text: req.Question},
					{InlineData: &geminiBlob{
						MimeType: req.MimeType,
						Data:     base64.StdEncoding.EncodeToString(req.Image),
					}},
				},
			},
		},
	}

	var parsed geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&parsed).
		Post(fmt.Sprintf("/models/%s:generateContent", g.config.ModelName))
	if err != nil {
		return "", &Error{Op: "gemini.analyze", Message: "generateContent call failed", Cause: err}
	}
	if resp.IsError() {
		return "", &Error{
			StatusCode: resp.StatusCode(),
			Op:         "gemini.analyze",
			Message:    fmt.Sprintf("generateContent returned %s", resp.Status()),
		}
	}

	// Missing fields degrade to an empty answer rather than failing the
	// request.
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
