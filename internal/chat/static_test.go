package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponderKeywordMatching(t *testing.T) {
	r := NewResponder(0)
	ctx := context.Background()

	cases := []struct {
		prompt string
		want   string
	}{
		{"Hi there", "Hello, I am UniTime AI. How may I help you optimize your schedule today?"},
		{"so... who are you exactly?", "I am UniTime AI, a smart assistant designed to help students and teachers manage their time, fill gaps, and boost productivity."},
		{"what features do you have", "I can help you with:\n1. Analyzing your timetable 📅\n2. Suggesting study plans 📚\n3. Tracking your productivity 📈"},
		{"make me a study plan", "Sure! I can create a study plan for you. I see you have a free slot at 2 PM. Shall we schedule a revision session?"},
		{"my class got cancelled", "Got a free slot? Great! I recommend using this time for a quick revision of your last lecture."},
		{"tell me about quantum physics", "That sounds interesting! Could you upload your schedule so I can give you a better recommendation?"},
	}
	for _, tc := range cases {
		got, err := r.Reply(ctx, tc.prompt)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "prompt %q", tc.prompt)
	}
}

func TestResponderRuleOrder(t *testing.T) {
	r := NewResponder(0)
	// "hi" matches inside "this" before any later rule gets a chance.
	got, err := r.Reply(context.Background(), "this gap bothers me")
	require.NoError(t, err)
	assert.Contains(t, got, "Hello, I am UniTime AI")
}

func TestResponderContextCancelled(t *testing.T) {
	r := NewResponder(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Reply(ctx, "hello")
	require.ErrorIs(t, err, context.Canceled)
}
