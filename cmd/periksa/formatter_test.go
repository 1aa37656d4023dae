// cmd/periksa/formatter_test.go
package main

import (
	"strings"
	"testing"
	"time"
)

func TestFormatSummarySuccess(t *testing.T) {
	result := &AnalysisResult{
		Success: true,
		Score: &RiskScore{
			Classification: ClassHoax,
			Confidence:     0.95,
			DetectedPatterns: []PatternMatch{
				{Family: FamilyHoax, PatternID: "x", Matches: []string{"sebarkan segera"}},
			},
		},
		Evidence: &EvidenceSet{
			TotalFound: 1,
			Items: []FactCheckItem{
				{Source: "TurnBackHoax", Title: "[SALAH] Uang ditarik", Verdict: VerdictHoax},
			},
		},
		AnalyzedAt: time.Now(),
	}

	out := FormatSummary(result)

	if !strings.Contains(out, "Kategori: Hoax") {
		t.Errorf("summary missing classification: %q", out)
	}
	if !strings.Contains(out, "sebarkan segera") {
		t.Errorf("summary missing detected pattern: %q", out)
	}
	if !strings.Contains(out, "TurnBackHoax") {
		t.Errorf("summary missing evidence source: %q", out)
	}
}

func TestFormatSummaryDegraded(t *testing.T) {
	result := &AnalysisResult{
		Success: true,
		Content: &AcquiredContent{
			Scraped: false,
			Note:    "Tautan tidak bisa dibuka, tetap dianalisis dari teks dan pola URL-nya",
		},
		Score:    &RiskScore{Classification: ClassValid, Confidence: 0.55},
		Evidence: &EvidenceSet{},
	}

	out := FormatSummary(result)

	if !strings.Contains(out, "Catatan: Tautan tidak bisa dibuka") {
		t.Errorf("degraded mode should be called out: %q", out)
	}
	if !strings.Contains(out, "Tidak ditemukan sumber relevan") {
		t.Errorf("empty evidence should be stated: %q", out)
	}
}

func TestFormatSummaryFailure(t *testing.T) {
	out := FormatSummary(&AnalysisResult{Success: false, Error: "input kosong"})
	if !strings.Contains(out, "Analisis gagal") || !strings.Contains(out, "input kosong") {
		t.Errorf("failure summary should carry the error: %q", out)
	}
}

func TestFormatBatchReport(t *testing.T) {
	results := []*AnalysisResult{
		{Success: true, Score: &RiskScore{Classification: ClassHoax}, Content: &AcquiredContent{Scraped: true}},
		{Success: true, Score: &RiskScore{Classification: ClassValid}},
		{Success: false, Error: "rusak"},
	}

	out := FormatBatchReport(results)

	if !strings.Contains(out, "3 item diproses") {
		t.Errorf("report missing totals: %q", out)
	}
	if !strings.Contains(out, "1 dari konten penuh") {
		t.Errorf("report missing scrape count: %q", out)
	}
	if !strings.Contains(out, "1 gagal") {
		t.Errorf("report missing failure count: %q", out)
	}
	if !strings.Contains(out, ClassHoax+": 1") {
		t.Errorf("report missing per-class counts: %q", out)
	}
}
