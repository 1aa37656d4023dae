// cmd/periksa/formatter.go
package main

import (
	"fmt"
	"strings"
)

// FormatSummary renders a merged result as a short human-readable
// report in Indonesian, suitable for chat surfaces and the CLI.
func FormatSummary(result *AnalysisResult) string {
	if result == nil {
		return ""
	}
	if !result.Success {
		return fmt.Sprintf("Analisis gagal: %s", result.Error)
	}

	var parts []string

	classification := ClassUnknown
	if result.Score != nil {
		classification = result.Score.Classification
	}
	parts = append(parts, fmt.Sprintf("Kategori: %s (confidence %.2f)",
		capitalize(classification), scoreConfidence(result.Score)))

	if result.Content != nil && !result.Content.Scraped {
		parts = append(parts, "Catatan: "+result.Content.Note)
	}

	if result.Score != nil && len(result.Score.DetectedPatterns) > 0 {
		var lines []string
		for _, p := range result.Score.DetectedPatterns {
			if len(p.Matches) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", p.Family, strings.Join(p.Matches, ", ")))
		}
		if len(lines) > 0 {
			parts = append(parts, "Pola terdeteksi:\n"+strings.Join(lines, "\n"))
		}
	}

	if result.Evidence != nil && result.Evidence.TotalFound > 0 {
		top := result.Evidence.Items[0]
		parts = append(parts, fmt.Sprintf("Cek Fakta: %s — %s (%s)", top.Source, top.Title, top.Verdict))
	} else {
		parts = append(parts, "Cek Fakta: Tidak ditemukan sumber relevan")
	}

	if result.Reasoning != nil && result.Reasoning.Reasoning != "" {
		parts = append(parts, "Analisis AI: "+result.Reasoning.Reasoning)
	}

	return strings.Join(parts, "\n")
}

// FormatBatchReport summarizes a batch run
func FormatBatchReport(results []*AnalysisResult) string {
	counts := make(map[string]int)
	scraped := 0
	failed := 0

	for _, r := range results {
		if r == nil || !r.Success {
			failed++
			continue
		}
		if r.Score != nil {
			counts[r.Score.Classification]++
		}
		if r.Content != nil && r.Content.Scraped {
			scraped++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Selesai: %d item diproses (%d dari konten penuh, %d gagal)\n", len(results), scraped, failed)
	for _, class := range []string{ClassHoax, ClassPhishing, ClassSuspicious, ClassValid} {
		if counts[class] > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", class, counts[class])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func scoreConfidence(score *RiskScore) float64 {
	if score == nil {
		return 0
	}
	return score.Confidence
}
