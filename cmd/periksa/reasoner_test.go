// cmd/periksa/reasoner_test.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseReasonerAnswerFencedJSON(t *testing.T) {
	raw := "```json\n{\"category\": \"HOAX\", \"confidence\": 90, \"reasoning\": \"Pola pesan berantai\", \"red_flags\": [\"urgensi\"], \"recommendation\": \"Jangan disebarkan\"}\n```"

	verdict := parseReasonerAnswer(raw, "openai", "gpt-4")

	if !verdict.Success {
		t.Fatal("well-formed answer should parse successfully")
	}
	if verdict.Category != "hoax" {
		t.Errorf("category should be lowercased, got %q", verdict.Category)
	}
	if verdict.Confidence != 0.9 {
		t.Errorf("percent confidence should normalize to 0.9, got %f", verdict.Confidence)
	}
	if len(verdict.RedFlags) != 1 || verdict.RedFlags[0] != "urgensi" {
		t.Errorf("unexpected red flags: %v", verdict.RedFlags)
	}
	if verdict.Provider != "openai" || verdict.Model != "gpt-4" {
		t.Errorf("provider metadata lost: %s/%s", verdict.Provider, verdict.Model)
	}
}

func TestParseReasonerAnswerEmbeddedJSON(t *testing.T) {
	raw := `Berikut hasil analisisnya: {"category": "valid", "confidence": 0.7, "reasoning": "Tidak ada indikasi"} Semoga membantu.`

	verdict := parseReasonerAnswer(raw, "gemini", "gemini-1.5-flash")

	if verdict.Category != ClassValid {
		t.Errorf("expected %s, got %q", ClassValid, verdict.Category)
	}
	if verdict.Confidence != 0.7 {
		t.Errorf("fractional confidence should pass through, got %f", verdict.Confidence)
	}
}

func TestParseReasonerAnswerGarbage(t *testing.T) {
	verdict := parseReasonerAnswer("Maaf, saya tidak bisa membantu dengan itu.", "openai", "gpt-4")

	if !verdict.Success {
		t.Fatal("garbage answers degrade, they do not fail")
	}
	if verdict.Category != ClassUnknown {
		t.Errorf("expected %s, got %q", ClassUnknown, verdict.Category)
	}
	if verdict.Confidence != 0.5 {
		t.Errorf("expected neutral confidence 0.5, got %f", verdict.Confidence)
	}
	if !strings.Contains(verdict.Reasoning, "tidak bisa membantu") {
		t.Errorf("raw answer should survive as reasoning, got %q", verdict.Reasoning)
	}
	if verdict.Recommendation == "" {
		t.Error("degraded verdict should still carry a recommendation")
	}
}

func TestBuildUserPromptIncludesPrior(t *testing.T) {
	prompt := buildUserPrompt(ReasonerRequest{
		Title: "Judul Uji",
		Text:  "Isi konten uji",
		URL:   "https://example.com/a",
		Prior: &RiskScore{Classification: ClassSuspicious, HoaxScore: 2},
	})

	for _, want := range []string{"Judul Uji", "Isi konten uji", "https://example.com/a", ClassSuspicious, "Hoax score: 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildUserPromptPlaceholders(t *testing.T) {
	prompt := buildUserPrompt(ReasonerRequest{Text: "Teks saja"})

	if !strings.Contains(prompt, "Tidak ada judul") {
		t.Error("missing title placeholder")
	}
	if !strings.Contains(prompt, "Tidak ada URL") {
		t.Error("missing URL placeholder")
	}
}

func TestGeminiReasonerAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "sk-uji" {
			t.Errorf("API key missing from query, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"{\"category\":\"phishing\",\"confidence\":80,\"reasoning\":\"Tautan mencurigakan\"}"}]}}]}`)
	}))
	defer srv.Close()

	reasoner := &GeminiReasoner{
		client:  &http.Client{Timeout: 2 * time.Second},
		apiKey:  "sk-uji",
		model:   "gemini-test",
		baseURL: srv.URL,
	}

	verdict, err := reasoner.Analyze(context.Background(), ReasonerRequest{Text: "Klik tautan ini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Category != ClassPhishing {
		t.Errorf("expected %s, got %q", ClassPhishing, verdict.Category)
	}
	if verdict.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %f", verdict.Confidence)
	}
	if verdict.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", verdict.Provider)
	}
}

func TestGeminiReasonerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	reasoner := &GeminiReasoner{
		client:  &http.Client{Timeout: 2 * time.Second},
		apiKey:  "sk-uji",
		model:   "gemini-test",
		baseURL: srv.URL,
	}

	_, err := reasoner.Analyze(context.Background(), ReasonerRequest{Text: "apa saja"})
	if err == nil {
		t.Fatal("expected an error for HTTP 429")
	}
	if !IsTransient(err) {
		t.Errorf("reasoner call failures should be transient, got %v", err)
	}
}

func TestNewReasonerSelection(t *testing.T) {
	cfg := testConfig()

	reasoner, err := NewReasoner(cfg)
	if err != nil || reasoner != nil {
		t.Fatalf("empty provider should disable reasoning, got %v / %v", reasoner, err)
	}

	cfg.ReasonerProvider = "gemini"
	cfg.GeminiAPIKey = "sk-uji"
	cfg.GeminiModel = "gemini-test"
	reasoner, err = NewReasoner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reasoner.(*GeminiReasoner); !ok {
		t.Fatalf("expected *GeminiReasoner, got %T", reasoner)
	}

	cfg.ReasonerProvider = "openai"
	cfg.OpenAIAPIKey = "sk-uji"
	cfg.OpenAIModel = "gpt-4"
	reasoner, err = NewReasoner(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reasoner.(*OpenAIReasoner); !ok {
		t.Fatalf("expected *OpenAIReasoner, got %T", reasoner)
	}
}
