// Package chat answers assistant prompts from a fixed keyword table. The
// responder is intentionally offline so the endpoint works without an AI
// provider configured.
package chat

import (
	"context"
	"strings"
	"time"
)

type rule struct {
	keywords []string
	reply    string
}

// Responder matches prompts against keyword rules and returns canned replies
// after an artificial delay.
type Responder struct {
	rules    []rule
	fallback string
	delay    time.Duration
}

// NewResponder builds the default rule table. delay simulates model latency
// and may be zero.
func NewResponder(delay time.Duration) *Responder {
	return &Responder{
		delay: delay,
		rules: []rule{
			{
				keywords: []string{"hi", "hello", "hey", "hii", "hello!"},
				reply:    "Hello, I am UniTime AI. How may I help you optimize your schedule today?",
			},
			{
				keywords: []string{"who are you", "what is unitime"},
				reply:    "I am UniTime AI, a smart assistant designed to help students and teachers manage their time, fill gaps, and boost productivity.",
			},
			{
				keywords: []string{"help", "features"},
				reply:    "I can help you with:\n1. Analyzing your timetable 📅\n2. Suggesting study plans 📚\n3. Tracking your productivity 📈",
			},
			{
				keywords: []string{"plan", "study"},
				reply:    "Sure! I can create a study plan for you. I see you have a free slot at 2 PM. Shall we schedule a revision session?",
			},
			{
				keywords: []string{"cancel", "gap"},
				reply:    "Got a free slot? Great! I recommend using this time for a quick revision of your last lecture.",
			},
		},
		fallback: "That sounds interesting! Could you upload your schedule so I can give you a better recommendation?",
	}
}

// Reply returns the first rule whose keyword appears anywhere in the prompt,
// or the fallback. Matching is case-insensitive substring containment, in
// table order.
func (r *Responder) Reply(ctx context.Context, prompt string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(prompt))
	reply := r.fallback
	for _, rule := range r.rules {
		if containsAny(lower, rule.keywords) {
			reply = rule.reply
			break
		}
	}
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
