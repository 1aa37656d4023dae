// cmd/periksa/helpers_test.go
package main

import "testing"

// testConfig returns a config tuned for fast tests: single fetch
// attempt, short timeouts, no meaningful inter-request delay.
func testConfig() *Config {
	return &Config{
		UserAgent:           "periksa-test",
		FetchTimeoutSeconds: 2,
		FetchAttempts:       1,
		MinBodyChars:        100,
		MaxBodyChars:        6000,
		RequestDelayMS:      1,
		SimilarityThreshold: 0.3,
		MaxEvidenceItems:    5,
		Thresholds:          DefaultThresholds(),
	}
}

// testLexicon builds the default lexicon with the built-in trusted
// domain list attached.
func testLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := LoadLexicon("")
	if err != nil {
		t.Fatalf("cannot build default lexicon: %v", err)
	}
	lex.TrustedDomains = hardcodedTrustedDomains
	return lex
}

// hasPatternFamily reports whether any detected pattern belongs to the family
func hasPatternFamily(score *RiskScore, family string) bool {
	for _, p := range score.DetectedPatterns {
		if p.Family == family {
			return true
		}
	}
	return false
}
