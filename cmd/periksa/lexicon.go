// cmd/periksa/lexicon.go
package main

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"
)

// PatternRule is one compiled lexicon rule. The ID is the raw pattern
// source so detections stay traceable to the lexicon entry that fired.
type PatternRule struct {
	ID string
	re *regexp.Regexp
}

// FindAll returns every occurrence of the rule in the given text
func (p PatternRule) FindAll(text string) []string {
	return p.re.FindAllString(text, -1)
}

// VerdictRule maps a fact-check verdict to its marker keywords.
// Evaluation order matters: the first rule with any keyword present wins.
type VerdictRule struct {
	Verdict  string
	Keywords []string
}

// Lexicon bundles every pattern family plus the supporting word lists.
// It is built once at startup and passed into the components that need
// it; nothing in the lexicon mutates after construction.
type Lexicon struct {
	Hoax          []PatternRule
	Phishing      []PatternRule
	Clickbait     []PatternRule
	SuspiciousURL []PatternRule
	CapsWords     *regexp.Regexp
	UrgencyWords  *regexp.Regexp
	Stopwords     map[string]bool
	Verdicts      []VerdictRule

	// TrustedDomains is filled from the trusted-domain file after the
	// pattern families are compiled.
	TrustedDomains []string
}

type lexiconFile struct {
	Hoax          []string `yaml:"hoax"`
	Phishing      []string `yaml:"phishing"`
	Clickbait     []string `yaml:"clickbait"`
	SuspiciousURL []string `yaml:"suspicious_url"`
	Stopwords     []string `yaml:"stopwords"`
}

var defaultHoaxPatterns = []string{
	`\b(viral|heboh|mengejutkan|mengerikan|menghebohkan|gempar)\b`,
	`\b(ternyata|rahasia|dibongkar|terungkap|terbongkar|fakta tersembunyi)\b`,
	`\b(wajib tahu|harus tau|penting banget|sangat penting|info penting)\b`,
	`\b(jangan sampai|awas|hati-hati|waspada|darurat)\b`,
	`\b(share|bagikan|sebarkan|forward)\s*(sebelum|agar|ke teman|segera)?\b`,
	`\b(fakta mengejutkan|info rahasia|bocoran penting|berita panas)\b`,
	`\b(dilarang keras|akan dihapus|jangan diam saja|jangan diabaikan)\b`,
	`\b(bukan hoax|katanya|teman saya|keluarga di|orang dalam)\b`,
	`\b(kabar ini|beredar luas|dari sumber terpercaya tapi dirahasiakan)\b`,
}

var defaultPhishingPatterns = []string{
	`\b(gratis|free|hadiah|bonus|menang|jackpot|reward|saldo gratis)\b`,
	`\b(klik|click|link|tautan)\s+(disini|di sini|sekarang|untuk|langsung)\b`,
	`\b(transfer|kirim|setor)\s+(uang|dana|saldo|biaya)\b`,
	`\b(verifikasi|aktivasi|konfirmasi|cek|validasi)\s+(akun|rekening|data|identitas)\b`,
	`\b(expired|kadaluarsa|hangus|batas waktu|akan diblokir|terkunci)\b`,
	`\b(segera|cepat|buruan|jangan sampai telat|waktunya terbatas)\b`,
	`\b(otp|kode rahasia|login|masukkan kode|security code)\b`,
}

var defaultClickbaitPatterns = []string{
	`\b(gak|tidak|tak)\s+(akan|bakal)\s+percaya\b`,
	`\b(nomor|no\.|angka)\s+\d+\s+(bikin|buat|akan)\b`,
	`\b(inilah|beginilah|ternyata begini|lihat hasilnya|simak faktanya)\b`,
	`\b(kamu pasti|orang ini|cewek ini|pria ini)\s+(tidak|gak)\s+(akan|bakal)\s+percaya\b`,
	`[?]{3,}|[!]{3,}`,
	`\b(hasilnya luar biasa|bisa bikin kamu tercengang|tak disangka)\b`,
}

var defaultSuspiciousURLPatterns = []string{
	`bit\.ly|tinyurl|short\.link|cutt\.ly|s\.id`,
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`,
	`[a-z0-9]{10,}\.(xyz|top|buzz|online|shop)`,
	`(giveaway|hadiah|freegift|promo)\.[a-z]{2,3}`,
	`(update|claim|login|redeem)\.(app|xyz|io)`,
}

var defaultStopwords = []string{
	"yang", "dan", "di", "ke", "dari", "ini", "itu", "dengan",
	"untuk", "pada", "adalah", "oleh", "akan", "telah", "dapat",
	"tidak", "ada", "dalam", "juga", "atau", "sebagai", "tersebut",
}

func defaultVerdictRules() []VerdictRule {
	return []VerdictRule{
		{VerdictHoax, []string{"hoax", "hoaks", "salah", "keliru", "tidak benar", "bohong"}},
		{VerdictMisleading, []string{"menyesatkan", "misleading", "kurang konteks", "sebagian benar"}},
		{VerdictTrue, []string{"benar", "fakta", "verified", "terverifikasi"}},
		{VerdictUnverified, []string{"belum terverifikasi", "tidak dapat diverifikasi", "belum dikonfirmasi"}},
	}
}

// LoadLexicon builds the lexicon from built-in defaults, overlaying any
// pattern lists found in the YAML file at path. An invalid pattern is a
// hard configuration fault.
func LoadLexicon(path string) (*Lexicon, error) {
	lf := lexiconFile{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &lf); err != nil {
				return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot parse %s", path), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot read %s", path), err)
		}
	}

	hoax := lf.Hoax
	if len(hoax) == 0 {
		hoax = defaultHoaxPatterns
	}
	phishing := lf.Phishing
	if len(phishing) == 0 {
		phishing = defaultPhishingPatterns
	}
	clickbait := lf.Clickbait
	if len(clickbait) == 0 {
		clickbait = defaultClickbaitPatterns
	}
	suspicious := lf.SuspiciousURL
	if len(suspicious) == 0 {
		suspicious = defaultSuspiciousURLPatterns
	}
	stopwordList := lf.Stopwords
	if len(stopwordList) == 0 {
		stopwordList = defaultStopwords
	}

	lex := &Lexicon{
		CapsWords:    regexp.MustCompile(`\b[A-Z]{4,}\b`),
		UrgencyWords: regexp.MustCompile(`(segera|darurat|penting|buruan|cepat)`),
		Stopwords:    make(map[string]bool, len(stopwordList)),
		Verdicts:     defaultVerdictRules(),
	}
	for _, w := range stopwordList {
		lex.Stopwords[w] = true
	}

	var err error
	if lex.Hoax, err = compileRules(hoax); err != nil {
		return nil, err
	}
	if lex.Phishing, err = compileRules(phishing); err != nil {
		return nil, err
	}
	if lex.Clickbait, err = compileRules(clickbait); err != nil {
		return nil, err
	}
	if lex.SuspiciousURL, err = compileRules(suspicious); err != nil {
		return nil, err
	}
	return lex, nil
}

func compileRules(patterns []string) ([]PatternRule, error) {
	rules := make([]PatternRule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, NewConfigError(ErrLexiconCompile, fmt.Sprintf("bad pattern %q", p), err)
		}
		rules = append(rules, PatternRule{ID: p, re: re})
	}
	return rules, nil
}
