// cmd/periksa/reasoner.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// reasonerSystemPrompt frames the contextual analysis task. The model
// is asked for a strict JSON object so the answer can be merged into
// the result record.
const reasonerSystemPrompt = `Anda adalah sistem analisis konten berbahasa Indonesia yang bertugas mengidentifikasi hoaks, disinformasi, dan misinformasi.

Tugas Anda:
1. Analisis konten yang diberikan secara mendalam
2. Identifikasi tanda-tanda hoaks, disinformasi, phishing, atau clickbait
3. Berikan kategori: HOAX, DISINFORMASI, MISINFORMASI, CLICKBAIT, PHISHING, atau VALID
4. Berikan confidence score (0-100)
5. Berikan reasoning yang jelas dan terstruktur

Berikan output dalam format JSON berikut:
{
    "category": "kategori utama",
    "confidence": confidence_score,
    "reasoning": "penjelasan detail",
    "red_flags": ["daftar tanda bahaya"],
    "recommendation": "rekomendasi untuk pembaca"
}`

// ReasonerRequest carries the analyzable text plus the lexical signal
// already computed for it.
type ReasonerRequest struct {
	Title string
	Text  string
	URL   string
	Prior *RiskScore
}

// ContextualReasoner produces a narrative judgment for analyzed
// content. Implementations must not be load-bearing: the pipeline
// treats any error as a degraded-but-valid outcome.
type ContextualReasoner interface {
	Analyze(ctx context.Context, req ReasonerRequest) (*ReasonerVerdict, error)
}

// NewReasoner selects the provider from configuration. An empty
// provider disables contextual reasoning entirely.
func NewReasoner(cfg *Config) (ContextualReasoner, error) {
	switch cfg.ReasonerProvider {
	case "":
		return nil, nil
	case "openai":
		return &OpenAIReasoner{
			client: openai.NewClient(cfg.OpenAIAPIKey),
			model:  cfg.OpenAIModel,
		}, nil
	case "gemini":
		return &GeminiReasoner{
			client: &http.Client{Timeout: 30 * time.Second},
			apiKey: cfg.GeminiAPIKey,
			model:  cfg.GeminiModel,
		}, nil
	default:
		return nil, NewConfigError(ErrConfigValidation,
			fmt.Sprintf("unknown reasoner provider %q", cfg.ReasonerProvider), nil)
	}
}

// buildUserPrompt renders the analyzable content and the prior lexical
// signal into the user message.
func buildUserPrompt(req ReasonerRequest) string {
	var b strings.Builder

	title := req.Title
	if title == "" {
		title = "Tidak ada judul"
	}
	sourceURL := req.URL
	if sourceURL == "" {
		sourceURL = "Tidak ada URL"
	}

	fmt.Fprintf(&b, "Analisis konten berikut:\n\nJudul: %s\n\nURL: %s\n\nKonten:\n%s\n\n", title, sourceURL, req.Text)

	if req.Prior != nil {
		fmt.Fprintf(&b, "Hasil analisis leksikal:\n- Klasifikasi awal: %s\n- Hoax score: %d\n- Phishing score: %d\n- Clickbait score: %d\n- Trust score: %d\n\n",
			req.Prior.Classification, req.Prior.HoaxScore, req.Prior.PhishingScore,
			req.Prior.ClickbaitScore, req.Prior.TrustScore)
	}

	b.WriteString("Berikan analisis mendalam dalam format JSON yang diminta.")
	return b.String()
}

// parseReasonerAnswer extracts the JSON object from a model answer.
// Models habitually wrap JSON in code fences or prose, so the parser
// hunts for the outermost braces. A completely unparseable answer
// degrades to an unknown-category verdict carrying the raw text.
func parseReasonerAnswer(raw, provider, model string) *ReasonerVerdict {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")

	verdict := &ReasonerVerdict{
		Success:  true,
		Provider: provider,
		Model:    model,
	}

	if start == -1 || end <= start {
		verdict.Category = ClassUnknown
		verdict.Confidence = 0.5
		verdict.Reasoning = cleaned
		verdict.Recommendation = "Perlu verifikasi manual"
		return verdict
	}

	var parsed struct {
		Category       string   `json:"category"`
		Confidence     float64  `json:"confidence"`
		Reasoning      string   `json:"reasoning"`
		RedFlags       []string `json:"red_flags"`
		Recommendation string   `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		verdict.Category = ClassUnknown
		verdict.Confidence = 0.5
		verdict.Reasoning = cleaned
		verdict.Recommendation = "Perlu verifikasi manual"
		return verdict
	}

	verdict.Category = strings.ToLower(parsed.Category)
	verdict.Confidence = parsed.Confidence
	if verdict.Confidence > 1 {
		verdict.Confidence = verdict.Confidence / 100
	}
	verdict.Reasoning = parsed.Reasoning
	verdict.RedFlags = parsed.RedFlags
	verdict.Recommendation = parsed.Recommendation
	return verdict
}

// OpenAIReasoner calls the OpenAI chat completion API
type OpenAIReasoner struct {
	client *openai.Client
	model  string
}

// Analyze implements ContextualReasoner
func (r *OpenAIReasoner) Analyze(ctx context.Context, req ReasonerRequest) (*ReasonerVerdict, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reasonerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, NewReasonerError(ErrReasonerCall, "OpenAI API error", err)
	}
	if len(resp.Choices) == 0 {
		return nil, NewReasonerError(ErrReasonerParse, "OpenAI returned no choices", nil)
	}

	return parseReasonerAnswer(resp.Choices[0].Message.Content, "openai", r.model), nil
}

// GeminiReasoner calls the Gemini generateContent endpoint directly
type GeminiReasoner struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze implements ContextualReasoner
func (r *GeminiReasoner) Analyze(ctx context.Context, req ReasonerRequest) (*ReasonerVerdict, error) {
	base := r.baseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, r.model, r.apiKey)

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: reasonerSystemPrompt + "\n\n" + buildUserPrompt(req)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewReasonerError(ErrReasonerCall, "cannot encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewReasonerError(ErrReasonerCall, "cannot build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, NewReasonerError(ErrReasonerCall, "Gemini API error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, NewReasonerError(ErrReasonerCall,
			fmt.Sprintf("Gemini HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), nil)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, NewReasonerError(ErrReasonerParse, "cannot decode response", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, NewReasonerError(ErrReasonerParse, "Gemini returned no candidates", nil)
	}

	return parseReasonerAnswer(parsed.Candidates[0].Content.Parts[0].Text, "gemini", r.model), nil
}
