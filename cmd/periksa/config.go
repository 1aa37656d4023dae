// cmd/periksa/config.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Thresholds carries the classification cascade constants. The defaults
// come from field experience with Indonesian broadcast hoaxes and have
// not been calibrated against a labeled dataset; treat them as tunable.
type Thresholds struct {
	HoaxTotalFlags       int     `json:"hoaxTotalFlags"`
	HoaxScoreMin         int     `json:"hoaxScoreMin"`
	SuspiciousMin        int     `json:"suspiciousMin"`
	SuspiciousMax        int     `json:"suspiciousMax"`
	HoaxConfidence       float64 `json:"hoaxConfidence"`
	PhishingConfidence   float64 `json:"phishingConfidence"`
	SuspiciousConfidence float64 `json:"suspiciousConfidence"`
	ValidTrustedConf     float64 `json:"validTrustedConfidence"`
	ValidUnknownConf     float64 `json:"validUnknownConfidence"`
}

// DefaultThresholds returns the stock cascade constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoaxTotalFlags:       5,
		HoaxScoreMin:         3,
		SuspiciousMin:        2,
		SuspiciousMax:        4,
		HoaxConfidence:       0.95,
		PhishingConfidence:   0.90,
		SuspiciousConfidence: 0.70,
		ValidTrustedConf:     0.85,
		ValidUnknownConf:     0.55,
	}
}

// Config holds application configuration
type Config struct {
	Version             string     `json:"version"`
	ListenAddr          string     `json:"listenAddr"`
	UserAgent           string     `json:"userAgent"`
	LogPath             string     `json:"logPath"`
	LogLevel            string     `json:"logLevel"`
	FetchTimeoutSeconds int        `json:"fetchTimeoutSeconds"`
	FetchAttempts       int        `json:"fetchAttempts"`
	MinBodyChars        int        `json:"minBodyChars"`
	MaxBodyChars        int        `json:"maxBodyChars"`
	RequestDelayMS      int        `json:"requestDelayMs"`
	SimilarityThreshold float64    `json:"similarityThreshold"`
	MaxEvidenceItems    int        `json:"maxEvidenceItems"`
	ReasonerProvider    string     `json:"reasonerProvider"` // "openai", "gemini" or empty to disable
	OpenAIAPIKey        string     `json:"-"`
	OpenAIModel         string     `json:"openaiModel"`
	GeminiAPIKey        string     `json:"-"`
	GeminiModel         string     `json:"geminiModel"`
	TrustedDomainsPath  string     `json:"trustedDomainsPath"`
	SourcesPath         string     `json:"sourcesPath"`
	LexiconPath         string     `json:"lexiconPath"`
	WatchlistPath       string     `json:"watchlistPath"`
	WatchCron           string     `json:"watchCron"`
	WatchOnStart        bool       `json:"watchOnStart"`
	Thresholds          Thresholds `json:"thresholds"`
}

// LoadConfig reads the JSON config file when present, overlays
// environment variables and fills defaults. Secrets only come from the
// environment.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Thresholds: DefaultThresholds()}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot parse %s", path), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot read %s", path), err)
		}
	}

	if cfg.Version == "" {
		cfg.Version = VERSION
	}
	cfg.ListenAddr = GetEnvString("PERIKSA_LISTEN_ADDR", orDefault(cfg.ListenAddr, ":8080"))
	cfg.UserAgent = GetEnvString("PERIKSA_USER_AGENT", orDefault(cfg.UserAgent,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"))
	cfg.LogPath = GetEnvString("PERIKSA_LOG_PATH", orDefault(cfg.LogPath, "data/logs/periksa.log"))
	cfg.LogLevel = GetEnvString("PERIKSA_LOG_LEVEL", orDefault(cfg.LogLevel, "info"))
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = int(defaultFetchTimeout / time.Second)
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = defaultFetchAttempts
	}
	if cfg.MinBodyChars <= 0 {
		cfg.MinBodyChars = defaultMinBodyChars
	}
	if cfg.MaxBodyChars <= 0 {
		cfg.MaxBodyChars = defaultMaxBodyChars
	}
	if cfg.RequestDelayMS <= 0 {
		cfg.RequestDelayMS = int(defaultRequestDelay / time.Millisecond)
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = defaultSimilarityThreshold
	}
	if cfg.MaxEvidenceItems <= 0 {
		cfg.MaxEvidenceItems = defaultMaxEvidenceItems
	}
	cfg.FetchTimeoutSeconds = GetEnvInt("PERIKSA_FETCH_TIMEOUT", cfg.FetchTimeoutSeconds)
	cfg.FetchAttempts = GetEnvInt("PERIKSA_FETCH_ATTEMPTS", cfg.FetchAttempts)
	cfg.RequestDelayMS = GetEnvInt("PERIKSA_REQUEST_DELAY_MS", cfg.RequestDelayMS)
	cfg.SimilarityThreshold = GetEnvFloat("PERIKSA_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)
	cfg.MaxEvidenceItems = GetEnvInt("PERIKSA_MAX_EVIDENCE_ITEMS", cfg.MaxEvidenceItems)
	cfg.ReasonerProvider = strings.ToLower(GetEnvString("PERIKSA_REASONER", cfg.ReasonerProvider))
	cfg.OpenAIAPIKey = GetEnvString("OPENAI_API_KEY", "")
	cfg.OpenAIModel = GetEnvString("PERIKSA_OPENAI_MODEL", orDefault(cfg.OpenAIModel, "gpt-4"))
	cfg.GeminiAPIKey = GetEnvString("GEMINI_API_KEY", "")
	cfg.GeminiModel = GetEnvString("PERIKSA_GEMINI_MODEL", orDefault(cfg.GeminiModel, "gemini-1.5-flash"))
	cfg.TrustedDomainsPath = orDefault(cfg.TrustedDomainsPath, "config/trusted_domains.txt")
	cfg.SourcesPath = orDefault(cfg.SourcesPath, "config/sources.yml")
	cfg.LexiconPath = orDefault(cfg.LexiconPath, "config/lexicons.yml")
	cfg.WatchCron = GetEnvString("PERIKSA_WATCH_CRON", cfg.WatchCron)
	cfg.WatchOnStart = GetEnvBool("PERIKSA_WATCH_ON_START", cfg.WatchOnStart)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	switch c.ReasonerProvider {
	case "", "openai", "gemini":
	default:
		return NewConfigError(ErrConfigValidation,
			fmt.Sprintf("unknown reasoner provider %q", c.ReasonerProvider), nil)
	}
	if c.ReasonerProvider == "openai" && c.OpenAIAPIKey == "" {
		return NewConfigError(ErrConfigValidation, "OPENAI_API_KEY is required for the openai reasoner", nil)
	}
	if c.ReasonerProvider == "gemini" && c.GeminiAPIKey == "" {
		return NewConfigError(ErrConfigValidation, "GEMINI_API_KEY is required for the gemini reasoner", nil)
	}
	t := c.Thresholds
	if t.SuspiciousMin > t.SuspiciousMax || t.HoaxTotalFlags <= 0 || t.HoaxScoreMin <= 0 {
		return NewConfigError(ErrConfigValidation, "invalid classification thresholds", nil)
	}
	return nil
}

// FetchTimeout returns the per-attempt fetch timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RequestDelay returns the inter-request spacing for outbound calls
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// SelectorSet maps the parts of a fact-check search result page
type SelectorSet struct {
	Articles string `yaml:"articles"`
	Title    string `yaml:"title"`
	Link     string `yaml:"link"`
	Excerpt  string `yaml:"excerpt"`
	Date     string `yaml:"date"`
}

// SourceConfig describes one fact-check source. Kind "html" sources are
// queried through their search page with CSS selectors; kind "feed"
// sources are read as RSS and filtered by keyword.
type SourceConfig struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	BaseURL   string      `yaml:"base_url"`
	SearchURL string      `yaml:"search_url"`
	FeedURL   string      `yaml:"feed_url"`
	Selectors SelectorSet `yaml:"selectors"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadSources reads the fact-check source definitions. A missing file
// falls back to the built-in defaults.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSources(), nil
		}
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot read %s", path), err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot parse %s", path), err)
	}
	if len(sf.Sources) == 0 {
		return defaultSources(), nil
	}

	for _, src := range sf.Sources {
		switch src.Kind {
		case "html":
			if src.SearchURL == "" || src.Selectors.Articles == "" {
				return nil, NewConfigError(ErrConfigValidation,
					fmt.Sprintf("source %q needs search_url and selectors", src.Name), nil)
			}
		case "feed":
			if src.FeedURL == "" {
				return nil, NewConfigError(ErrConfigValidation,
					fmt.Sprintf("source %q needs feed_url", src.Name), nil)
			}
		default:
			return nil, NewConfigError(ErrConfigValidation,
				fmt.Sprintf("source %q has unknown kind %q", src.Name, src.Kind), nil)
		}
	}
	return sf.Sources, nil
}

func defaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:      "TurnBackHoax Mafindo",
			Kind:      "html",
			BaseURL:   "https://turnbackhoax.id",
			SearchURL: "https://turnbackhoax.id/?s={query}",
			Selectors: SelectorSet{
				Articles: "article.post",
				Title:    "h2.entry-title a",
				Link:     "h2.entry-title a",
				Excerpt:  "div.entry-summary",
				Date:     "time.entry-date",
			},
		},
		{
			Name:      "Cek Fakta Tempo",
			Kind:      "html",
			BaseURL:   "https://cekfakta.tempo.co",
			SearchURL: "https://cekfakta.tempo.co/search?q={query}",
			Selectors: SelectorSet{
				Articles: "div.card",
				Title:    "h2.title a",
				Link:     "h2.title a",
				Excerpt:  "p.text",
				Date:     "span.date",
			},
		},
		{
			Name:    "TurnBackHoax Feed",
			Kind:    "feed",
			BaseURL: "https://turnbackhoax.id",
			FeedURL: "https://turnbackhoax.id/feed/",
		},
	}
}

// hardcodedTrustedDomains backs up the file-based list so a missing or
// truncated file never disables the trusted-source check.
var hardcodedTrustedDomains = []string{
	"kompas.com", "detik.com", "tempo.co", "antaranews.com",
	"cnnindonesia.com", "liputan6.com", "tribunnews.com",
	"republika.co.id", "mediaindonesia.com", "sindonews.com",
	"kominfo.go.id", "turnbackhoax.id", "mafindo.or.id",
	"bbc.com", "suara.com",
}

// LoadTrustedDomains reads one domain per line, skipping blanks and
// #-prefixed comments, and merges the built-in list underneath.
func LoadTrustedDomains(path string) []string {
	seen := make(map[string]bool)
	var domains []string

	add := func(d string) {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || seen[d] {
			return
		}
		seen[d] = true
		domains = append(domains, d)
	}

	file, err := os.Open(path)
	if err != nil {
		GetLogger().Warning("Trusted domains file not available (%v), using built-in list", err)
	} else {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			add(line)
		}
	}

	for _, d := range hardcodedTrustedDomains {
		add(d)
	}
	return domains
}
