package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GeminiProvider calls the Gemini generateContent REST API for one fixed
// model name. Wrap several of these in a Fallback for candidate trials.
type GeminiProvider struct {
	client *resty.Client
	model  string
	apiKey string
}

// NewGeminiProvider creates a provider bound to one model. baseURL defaults
// to the public endpoint when empty.
func NewGeminiProvider(baseURL, apiKey, model string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	return &GeminiProvider{client: c, model: model, apiKey: apiKey}
}

func (p *GeminiProvider) Name() string { return p.model }

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the model and returns its concatenated text
// reply.
func (p *GeminiProvider) Generate(ctx context.Context, prompt Prompt) (*Result, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key")
	}

	req := geminiRequest{Contents: []geminiContent{{}}}
	for _, part := range prompt.Parts {
		if part.InlineData != nil {
			req.Contents[0].Parts = append(req.Contents[0].Parts, geminiPart{
				InlineData: &geminiInlineData{
					MimeType: part.MimeType,
					Data:     base64.StdEncoding.EncodeToString(part.InlineData),
				},
			})
			continue
		}
		req.Contents[0].Parts = append(req.Contents[0].Parts, geminiPart{Text: part.Text})
	}

	var out geminiResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(&req).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", p.model))
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", p.model, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, &StatusError{Status: resp.StatusCode(), Message: msg}
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("gemini %s: empty response", p.model)
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return &Result{Text: b.String(), Model: p.model}, nil
}
