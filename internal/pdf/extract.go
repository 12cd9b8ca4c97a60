// Package pdf extracts plain text from uploaded PDF documents so their
// content can be inlined into analysis prompts.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxTextChars caps extracted text so oversized documents do not blow up
// prompt size.
const MaxTextChars = 10000

// ExtractText returns the plain text of a PDF buffer, truncated to
// MaxTextChars runes.
func ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	text := sb.String()
	if runes := []rune(text); len(runes) > MaxTextChars {
		text = string(runes[:MaxTextChars])
	}
	return text, nil
}
