package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrAllModelsFailed is returned once every candidate has been exhausted.
var ErrAllModelsFailed = errors.New("all AI models failed")

// Fallback walks an ordered provider list and returns the first success.
// Quota and model-not-found errors advance to the next candidate, as does any
// other error; only full exhaustion is fatal.
type Fallback struct {
	providers []Provider
}

// NewFallback builds a fallback chain over the given providers, in order.
func NewFallback(providers ...Provider) *Fallback {
	return &Fallback{providers: providers}
}

func (f *Fallback) Name() string { return "fallback" }

// Generate tries each provider in sequence. The returned error wraps
// ErrAllModelsFailed together with the last provider error.
func (f *Fallback) Generate(ctx context.Context, p Prompt) (*Result, error) {
	var lastErr error
	for _, provider := range f.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Info().Str("model", provider.Name()).Msg("Attempting AI model")
		res, err := provider.Generate(ctx, p)
		if err == nil {
			return res, nil
		}
		lastErr = err
		switch {
		case IsQuotaError(err):
			log.Warn().Str("model", provider.Name()).Msg("Quota exceeded, switching model")
		case IsModelNotFound(err):
			log.Info().Str("model", provider.Name()).Msg("Model not available, switching")
		default:
			log.Warn().Str("model", provider.Name()).Err(err).Msg("Model error, switching")
		}
	}
	if lastErr == nil {
		return nil, ErrAllModelsFailed
	}
	return nil, fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
}

// StatusError carries the HTTP status returned by a model backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model backend status %d: %s", e.Status, e.Message)
}

// IsQuotaError reports whether err is an HTTP 429 from the backend.
func IsQuotaError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 429
}

// IsModelNotFound reports whether err indicates an unknown model.
func IsModelNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) && se.Status == 404 {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "not found")
}
