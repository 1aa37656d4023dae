// cmd/periksa/pipeline.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Pipeline sequences acquisition, scoring and evidence retrieval and
// merges the outputs into one result record. It is the only component
// aware of all the others.
type Pipeline struct {
	scorer    *Scorer
	scraper   *Scraper
	retriever *Retriever
	reasoner  ContextualReasoner
}

// NewPipeline wires the pipeline. The reasoner may be nil, in which
// case results carry the lexical score and evidence alone.
func NewPipeline(scorer *Scorer, scraper *Scraper, retriever *Retriever, reasoner ContextualReasoner) *Pipeline {
	return &Pipeline{
		scorer:    scorer,
		scraper:   scraper,
		retriever: retriever,
		reasoner:  reasoner,
	}
}

// Run analyzes one input end to end. Acquisition and reasoner failures
// degrade rather than abort; only empty input or an internal fault
// yields Success=false, and then with no partial result.
func (p *Pipeline) Run(ctx context.Context, input AnalysisInput) (result *AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			GetLogger().Error("Pipeline panic: %v", r)
			result = &AnalysisResult{
				Success:    false,
				Input:      input,
				Error:      fmt.Sprintf("internal error: %v", r),
				AnalyzedAt: time.Now(),
			}
		}
	}()

	var content *AcquiredContent
	text := input.RawText
	sourceURL := input.URL

	// URL-looking raw text is treated as a link to acquire
	if sourceURL == "" && strings.Contains(input.RawText, "http") {
		sourceURL = strings.TrimSpace(input.RawText)
	}
	if sourceURL != "" {
		content = p.scraper.Acquire(ctx, sourceURL)
		text = content.BodyText
	}

	score, err := p.scorer.Score(text, sourceURL)
	if err != nil {
		return &AnalysisResult{
			Success:    false,
			Input:      input,
			Error:      err.Error(),
			AnalyzedAt: time.Now(),
		}
	}

	// A throwaway-TLD domain is treated as phishing no matter what the
	// cascade said. The override is recorded as its own pattern match.
	if content != nil && content.IsSuspiciousDomain {
		domain := content.Domain
		if domain == "" {
			domain = "unknown-domain"
		}
		score.DetectedPatterns = append(score.DetectedPatterns, PatternMatch{
			Family:    FamilySuspiciousDomain,
			PatternID: "throwaway-tld",
			Matches:   []string{domain},
		})
		score.Classification = ClassPhishing
	}

	evidence := p.retriever.FindRelated(ctx, text)

	var reasoning *ReasonerVerdict
	if p.reasoner != nil {
		title := ""
		if content != nil {
			title = content.Title
		}
		verdict, err := p.reasoner.Analyze(ctx, ReasonerRequest{
			Title: title,
			Text:  text,
			URL:   sourceURL,
			Prior: score,
		})
		if err != nil {
			GetLogger().Warning("Contextual reasoner unavailable, continuing with lexical result: %v", err)
		} else if verdict != nil && verdict.Success {
			reasoning = verdict
		}
	}

	note := "Analisis dari teks langsung"
	if content != nil {
		note = content.Note
	}

	return &AnalysisResult{
		Success:    true,
		Input:      input,
		Content:    content,
		Score:      score,
		Evidence:   evidence,
		Reasoning:  reasoning,
		Note:       note,
		AnalyzedAt: time.Now(),
	}
}

// RunMany analyzes inputs sequentially with a fixed delay between
// items. Failures stay isolated per item. The optional progress
// callback fires after each item.
func (p *Pipeline) RunMany(ctx context.Context, inputs []AnalysisInput, delay time.Duration, progress func(int, *AnalysisResult)) []*AnalysisResult {
	results := make([]*AnalysisResult, 0, len(inputs))
	for i, input := range inputs {
		result := p.Run(ctx, input)
		results = append(results, result)
		if progress != nil {
			progress(i, result)
		}
		if i < len(inputs)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return results
			}
		}
	}
	return results
}
