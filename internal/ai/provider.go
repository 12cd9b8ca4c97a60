// Package ai abstracts the generative-AI backend behind a uniform Provider
// contract. Model selection is an ordered trial of candidates: each provider
// is invoked in sequence and the first success wins.
package ai

import (
	"context"
	"regexp"
	"strings"
)

// Part is one element of a prompt: either plain text or an inline file.
type Part struct {
	Text string
	// InlineData carries raw file bytes for multimodal prompts.
	InlineData []byte
	MimeType   string
}

// Prompt is the ordered list of parts sent to a model.
type Prompt struct {
	Parts []Part
}

// Result is the raw text reply from a model.
type Result struct {
	Text  string
	Model string
}

// Provider generates a reply for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (*Result, error)
}

// DefaultCandidates is the ordered model list tried by the analyze flow.
var DefaultCandidates = []string{
	"gemini-2.0-flash-lite",
	"gemini-2.5-flash",
	"gemini-flash-latest",
	"gemini-pro-vision",
}

var jsonFence = regexp.MustCompile("```json|```")

// CleanJSON strips markdown code fences that models wrap around JSON replies.
func CleanJSON(text string) string {
	return strings.TrimSpace(jsonFence.ReplaceAllString(text, ""))
}
