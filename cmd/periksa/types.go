// cmd/periksa/types.go
package main

import "time"

// AnalysisInput is the raw request handed to the pipeline. It is built
// once per request and never mutated.
type AnalysisInput struct {
	RawText string `json:"rawText"`
	URL     string `json:"url,omitempty"`
}

// PatternMatch records one pattern rule that fired, with the literal
// text fragments it matched.
type PatternMatch struct {
	Family    string   `json:"family"`
	PatternID string   `json:"patternId"`
	Matches   []string `json:"matches"`
}

// RiskScore is the scorer's verdict over one piece of text.
type RiskScore struct {
	HoaxScore          int            `json:"hoaxScore"`
	PhishingScore      int            `json:"phishingScore"`
	ClickbaitScore     int            `json:"clickbaitScore"`
	TrustScore         int            `json:"trustScore"`
	SuspiciousURLScore int            `json:"suspiciousUrlScore"`
	ExtraFlags         int            `json:"extraFlags"`
	Classification     string         `json:"classification"`
	Confidence         float64        `json:"confidence"`
	DetectedPatterns   []PatternMatch `json:"detectedPatterns"`
}

// TotalFlags sums the text-derived signal counts. Trust and URL scores
// are kept out because the classification cascade treats them separately.
func (r *RiskScore) TotalFlags() int {
	return r.HoaxScore + r.PhishingScore + r.ClickbaitScore + r.ExtraFlags
}

// AcquiredContent is what the acquisition layer hands downstream.
// BodyText is never empty: when the fetch fails it carries the URL
// string itself so the scorer always has material to work with.
type AcquiredContent struct {
	SourceURL          string `json:"sourceUrl"`
	Domain             string `json:"domain"`
	IsTrustedSource    bool   `json:"isTrustedSource"`
	IsSuspiciousDomain bool   `json:"isSuspiciousDomain"`
	Scraped            bool   `json:"scraped"`
	Title              string `json:"title"`
	BodyText           string `json:"bodyText"`
	Author             string `json:"author"`
	PublishDate        string `json:"publishDate"`
	Description        string `json:"description"`
	Note               string `json:"note"`
	Error              string `json:"error,omitempty"`
}

// FactCheckItem is a single fact-check article found for the input.
type FactCheckItem struct {
	Source          string  `json:"source"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Excerpt         string  `json:"excerpt"`
	PublishDateText string  `json:"publishDateText"`
	Verdict         string  `json:"verdict"`
	RelevanceScore  float64 `json:"relevanceScore"`
	SimilarityScore float64 `json:"similarityScore,omitempty"`
}

// EvidenceSet is the ranked, deduplicated retrieval result.
type EvidenceSet struct {
	KeywordsUsed []string        `json:"keywordsUsed"`
	Items        []FactCheckItem `json:"items"`
	TotalFound   int             `json:"totalFound"`
	Errors       []string        `json:"errors,omitempty"`
}

// ReasonerVerdict is the contextual reasoner's narrative judgment.
// Success is false when the provider failed or returned garbage; the
// pipeline then presents the lexical score alone.
type ReasonerVerdict struct {
	Success        bool     `json:"success"`
	Category       string   `json:"category"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	RedFlags       []string `json:"redFlags,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
}

// AnalysisResult is the merged record handed to presentation layers.
// It is assembled once per request and serializable as-is.
type AnalysisResult struct {
	Success    bool             `json:"success"`
	Input      AnalysisInput    `json:"input"`
	Content    *AcquiredContent `json:"content,omitempty"`
	Score      *RiskScore       `json:"score,omitempty"`
	Evidence   *EvidenceSet     `json:"evidence,omitempty"`
	Reasoning  *ReasonerVerdict `json:"reasoning,omitempty"`
	Note       string           `json:"note,omitempty"`
	Error      string           `json:"error,omitempty"`
	AnalyzedAt time.Time        `json:"analyzedAt"`
}

// ProgressEvent is pushed to websocket subscribers during batch runs.
type ProgressEvent struct {
	Index          int    `json:"index"`
	Total          int    `json:"total"`
	URL            string `json:"url,omitempty"`
	Classification string `json:"classification"`
	Scraped        bool   `json:"scraped"`
	Error          string `json:"error,omitempty"`
}
