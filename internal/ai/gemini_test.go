package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("missing api key query param")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 2 {
			t.Errorf("unexpected parts: %+v", req.Contents)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "plan"}}}},
			},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "k", "test-model")
	res, err := p.Generate(context.Background(), Prompt{Parts: []Part{
		{InlineData: []byte{1, 2, 3}, MimeType: "image/png"},
		{Text: "analyze this"},
	}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Text != "plan" || res.Model != "test-model" {
		t.Errorf("result = %+v", res)
	}
}

func TestGeminiGenerateQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 429, "message": "quota exceeded"}})
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "k", "test-model")
	_, err := p.Generate(context.Background(), Prompt{Parts: []Part{{Text: "hi"}}})
	if !IsQuotaError(err) {
		t.Fatalf("want quota error, got %v", err)
	}
}

func TestGeminiGenerateMissingKey(t *testing.T) {
	p := NewGeminiProvider("", "", "test-model")
	if _, err := p.Generate(context.Background(), Prompt{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
