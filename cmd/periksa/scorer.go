// cmd/periksa/scorer.go
package main

import (
	"fmt"
	"strings"
)

// Broadcast-style triggers. Any single one over its limit adds one
// extra flag.
const (
	broadcastCapsLimit    = 5
	broadcastExclaimLimit = 3
	broadcastUrgencyLimit = 3
)

// Scorer classifies text with weighted lexicon pattern families.
// It does no I/O and is safe for concurrent use.
type Scorer struct {
	lexicon    *Lexicon
	thresholds Thresholds
}

// NewScorer creates a scorer over the given lexicon and cascade thresholds
func NewScorer(lexicon *Lexicon, thresholds Thresholds) *Scorer {
	return &Scorer{
		lexicon:    lexicon,
		thresholds: thresholds,
	}
}

// Score evaluates every pattern family against the text (and, when
// present, the URL) and classifies the result. Scores are additive by
// occurrence count. The only failure mode is empty input.
func (s *Scorer) Score(text, sourceURL string) (*RiskScore, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewInputError(ErrEmptyText, "input text is empty")
	}

	lower := strings.ToLower(text)
	score := &RiskScore{Classification: ClassUnknown}

	// Family evaluation order is fixed; detected patterns are recorded
	// in this same order.
	score.HoaxScore = s.applyFamily(score, FamilyHoax, s.lexicon.Hoax, lower)
	score.PhishingScore = s.applyFamily(score, FamilyPhishing, s.lexicon.Phishing, lower)
	score.ClickbaitScore = s.applyFamily(score, FamilyClickbait, s.lexicon.Clickbait, lower)
	s.applyBroadcastHeuristic(score, text, lower)

	if sourceURL != "" {
		lowerURL := strings.ToLower(sourceURL)
		score.SuspiciousURLScore = s.applyFamily(score, FamilySuspiciousURL, s.lexicon.SuspiciousURL, lowerURL)
		s.applyTrustedSources(score, lowerURL)
	}

	s.classify(score)
	return score, nil
}

// applyFamily runs one pattern family, appending a match record per
// rule that fired, and returns the family's occurrence total.
func (s *Scorer) applyFamily(score *RiskScore, family string, rules []PatternRule, text string) int {
	total := 0
	for _, rule := range rules {
		matches := rule.FindAll(text)
		if len(matches) == 0 {
			continue
		}
		total += len(matches)
		score.DetectedPatterns = append(score.DetectedPatterns, PatternMatch{
			Family:    family,
			PatternID: rule.ID,
			Matches:   matches,
		})
	}
	return total
}

// applyBroadcastHeuristic detects the chain-message broadcast style:
// shouting in caps, stacked exclamation marks, urgency words.
func (s *Scorer) applyBroadcastHeuristic(score *RiskScore, original, lower string) {
	capsWords := len(s.lexicon.CapsWords.FindAllString(original, -1))
	exclamations := countOccurrences(original, "!")
	urgentWords := len(s.lexicon.UrgencyWords.FindAllString(lower, -1))

	if capsWords > broadcastCapsLimit || exclamations > broadcastExclaimLimit || urgentWords > broadcastUrgencyLimit {
		score.ExtraFlags++
		score.DetectedPatterns = append(score.DetectedPatterns, PatternMatch{
			Family:    FamilyBroadcastStyle,
			PatternID: "capslock/urgency",
			Matches: []string{
				fmt.Sprintf("%d caps", capsWords),
				fmt.Sprintf("%d !", exclamations),
				fmt.Sprintf("%d urgency words", urgentWords),
			},
		})
	}
}

// applyTrustedSources increments trust for every configured trusted
// domain found inside the URL.
func (s *Scorer) applyTrustedSources(score *RiskScore, lowerURL string) {
	for _, domain := range s.lexicon.TrustedDomains {
		if strings.Contains(lowerURL, domain) {
			score.TrustScore++
			score.DetectedPatterns = append(score.DetectedPatterns, PatternMatch{
				Family:    FamilyTrustedSource,
				PatternID: domain,
				Matches:   []string{domain},
			})
		}
	}
}

// classify runs the priority cascade. This is not a weighted sum: the
// hoax and phishing conditions pre-empt the suspicious band, and a
// missing trust signal downgrades the valid confidence.
func (s *Scorer) classify(score *RiskScore) {
	t := s.thresholds
	total := score.TotalFlags()

	switch {
	case total >= t.HoaxTotalFlags || (score.HoaxScore >= t.HoaxScoreMin && score.TrustScore == 0):
		score.Classification = ClassHoax
		score.Confidence = t.HoaxConfidence
	case score.PhishingScore >= 1 && score.SuspiciousURLScore > 0:
		score.Classification = ClassPhishing
		score.Confidence = t.PhishingConfidence
	case total >= t.SuspiciousMin && total <= t.SuspiciousMax:
		score.Classification = ClassSuspicious
		score.Confidence = t.SuspiciousConfidence
	default:
		score.Classification = ClassValid
		if score.TrustScore > 0 {
			score.Confidence = t.ValidTrustedConf
		} else {
			score.Confidence = t.ValidUnknownConf
		}
	}
}
