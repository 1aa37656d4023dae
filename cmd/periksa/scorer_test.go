// cmd/periksa/scorer_test.go
package main

import (
	"errors"
	"testing"
)

func TestScoreBroadcastHoax(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	text := "FORWARD!!! SEBARKAN SEGERA! Katanya mulai besok uang ditarik BI. Buruan tukarkan sebelum dihapus!"
	score, err := scorer.Score(text, "https://bit.ly/info-baru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Classification != ClassHoax {
		t.Fatalf("expected %s, got %s", ClassHoax, score.Classification)
	}
	if score.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %.2f", score.Confidence)
	}
	if score.HoaxScore < 3 {
		t.Errorf("expected hoax score >= 3, got %d", score.HoaxScore)
	}
	if score.TrustScore != 0 {
		t.Errorf("expected trust score 0, got %d", score.TrustScore)
	}
	if score.SuspiciousURLScore == 0 {
		t.Error("bit.ly URL should raise the suspicious URL score")
	}
	if !hasPatternFamily(score, FamilySuspiciousURL) {
		t.Error("expected a suspiciousUrl pattern match for the shortener")
	}
	if !hasPatternFamily(score, FamilyHoax) {
		t.Error("expected hoax pattern matches to be recorded")
	}
}

func TestScorePhishingWithShortener(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	score, err := scorer.Score("GRATIS! Klik disini untuk verifikasi akun Anda", "https://bit.ly/hadiah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Classification != ClassPhishing {
		t.Fatalf("expected %s, got %s", ClassPhishing, score.Classification)
	}
	if score.Confidence != 0.90 {
		t.Errorf("expected confidence 0.90, got %.2f", score.Confidence)
	}
	if score.PhishingScore < 1 {
		t.Errorf("expected phishing score >= 1, got %d", score.PhishingScore)
	}
	if score.SuspiciousURLScore == 0 {
		t.Error("shortener URL should raise the suspicious URL score")
	}
}

func TestScoreTrustedSourceValid(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	text := "Pemerintah mengumumkan jadwal baru layanan publik mulai pekan depan."
	score, err := scorer.Score(text, "https://www.kompas.com/nasional/berita")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Classification != ClassValid {
		t.Fatalf("expected %s, got %s", ClassValid, score.Classification)
	}
	if score.Confidence != 0.85 {
		t.Errorf("trusted source should score 0.85, got %.2f", score.Confidence)
	}
	if score.TrustScore == 0 {
		t.Error("kompas.com should count as a trusted source")
	}
	if !hasPatternFamily(score, FamilyTrustedSource) {
		t.Error("expected a trustedSource pattern match")
	}
}

func TestScoreNeutralTextWithoutURL(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	score, err := scorer.Score("Pemerintah mengumumkan jadwal baru layanan publik mulai pekan depan.", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Classification != ClassValid {
		t.Fatalf("expected %s, got %s", ClassValid, score.Classification)
	}
	if score.Confidence != 0.55 {
		t.Errorf("no trust signal should downgrade confidence to 0.55, got %.2f", score.Confidence)
	}
	if score.TotalFlags() != 0 {
		t.Errorf("neutral text should raise no flags, got %d: %+v", score.TotalFlags(), score.DetectedPatterns)
	}
}

func TestScoreSuspiciousBand(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	score, err := scorer.Score("Ternyata ada kabar mengejutkan dari ibu kota", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.Classification != ClassSuspicious {
		t.Fatalf("expected %s with total flags %d, got %s", ClassSuspicious, score.TotalFlags(), score.Classification)
	}
	if score.Confidence != 0.70 {
		t.Errorf("expected confidence 0.70, got %.2f", score.Confidence)
	}
}

func TestScoreEmptyTextFails(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	score, err := scorer.Score("   ", "")
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
	if score != nil {
		t.Fatal("no score should be returned on error")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != ErrEmptyText {
		t.Errorf("expected code %s, got %s", ErrEmptyText, appErr.Code)
	}
}

func TestScoreConfidenceBounds(t *testing.T) {
	scorer := NewScorer(testLexicon(t), DefaultThresholds())

	known := map[string]bool{
		ClassHoax: true, ClassPhishing: true, ClassSuspicious: true, ClassValid: true,
	}

	samples := []struct {
		text string
		url  string
	}{
		{"VIRAL!!! Rahasia dibongkar, sebarkan sebelum dihapus!", "https://bit.ly/x"},
		{"Gratis saldo, klik disini sekarang", "https://tinyurl.com/y"},
		{"Harga cabai naik menjelang lebaran", "https://www.tempo.co/ekonomi"},
		{"Cuaca cerah diperkirakan sepanjang akhir pekan", ""},
		{"Inilah ternyata fakta mengejutkan", ""},
	}

	for _, sample := range samples {
		score, err := scorer.Score(sample.text, sample.url)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", sample.text, err)
		}
		if !known[score.Classification] {
			t.Errorf("unknown classification %q for %q", score.Classification, sample.text)
		}
		if score.Confidence <= 0 || score.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %.2f", sample.text, score.Confidence)
		}
	}
}
