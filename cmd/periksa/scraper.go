// cmd/periksa/scraper.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// urlShapeRe is a deliberately loose shape check: scheme plus a
// plausible host, IP literals included. Anything that fails it is
// analyzed as plain text instead of fetched.
var urlShapeRe = regexp.MustCompile(`^https?://(([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,10}|\d{1,3}(\.\d{1,3}){3}|localhost)(:\d+)?([/?#]|$)`)

// suspiciousTLDs are throwaway TLD suffixes common on phishing sites
var suspiciousTLDs = []string{
	".xyz", ".site", ".buzz", ".top", ".icu", ".click",
	".gift", ".app", ".link", ".live", ".shop", ".monster",
	".fit", ".rest", ".cf", ".ml", ".gq",
}

var bodyContainerRe = regexp.MustCompile(`(?i)article|content|post|entry`)
var authorClassRe = regexp.MustCompile(`(?i)author|penulis|reporter`)
var dateClassRe = regexp.MustCompile(`(?i)date|time|publish|tanggal`)

// Scraper turns a URL into analyzable text. Its governing rule: never
// block the pipeline. Every failure mode resolves to a fallback record
// whose BodyText is the URL string itself.
type Scraper struct {
	client         *http.Client
	cfg            *Config
	trustedDomains []string
	cache          *Cache
	limiters       map[string]*rate.Limiter
	limiterMu      sync.Mutex
}

// NewScraper creates a scraper with per-attempt timeouts and per-host
// request spacing.
func NewScraper(cfg *Config, trustedDomains []string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.FetchTimeout(),
		},
		cfg:            cfg,
		trustedDomains: trustedDomains,
		cache:          NewCache(scrapeCacheTTL, cacheMaxItems),
		limiters:       make(map[string]*rate.Limiter),
	}
}

// hostLimiter returns the rate limiter for a host, creating it on first use
func (s *Scraper) hostLimiter(host string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	limiter, ok := s.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(s.cfg.RequestDelay()), 1)
		s.limiters[host] = limiter
	}
	return limiter
}

// IsTrustedSource reports whether the URL's host matches the trusted
// domain list, either exactly or as a subdomain.
func (s *Scraper) IsTrustedSource(rawURL string) bool {
	domain := extractDomain(rawURL)
	if domain == "" {
		return false
	}
	for _, trusted := range s.trustedDomains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}

// IsSuspiciousDomain reports whether the URL's host sits on a
// throwaway TLD often used by phishing campaigns.
func (s *Scraper) IsSuspiciousDomain(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

// Acquire fetches and extracts article content from a URL. It never
// returns nil and never returns an empty BodyText: when retrieval
// fails, the record degrades to the URL string as analyzable text with
// Scraped=false and the last error preserved.
func (s *Scraper) Acquire(ctx context.Context, rawURL string) *AcquiredContent {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return s.fallbackResult("", "URL kosong atau tidak valid")
	}

	if cached, ok := s.cache.Get(rawURL); ok {
		return cached.(*AcquiredContent)
	}

	if !urlShapeRe.MatchString(rawURL) {
		GetLogger().Warning("Suspicious URL format: %s", rawURL)
		return s.fallbackResult(rawURL, NewInputError(ErrMalformedURL, "malformed-url").Error())
	}

	domain := extractDomain(rawURL)
	trusted := s.IsTrustedSource(rawURL)
	suspicious := s.IsSuspiciousDomain(rawURL)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.FetchAttempts; attempt++ {
		GetLogger().Debug("Scraping %s (attempt %d/%d)", rawURL, attempt, s.cfg.FetchAttempts)

		result, err := s.fetchOnce(ctx, rawURL)
		if err == nil {
			result.Domain = domain
			result.IsTrustedSource = trusted
			result.IsSuspiciousDomain = suspicious
			result.Note = "Konten berhasil diambil, analisis dari artikel lengkap"
			s.cache.Set(rawURL, result)
			return result
		}

		lastErr = err
		if attempt < s.cfg.FetchAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = s.cfg.FetchAttempts
			}
		}
	}

	// Fallbacks are never cached. A failure can be the caller's own
	// canceled context, and caching it would serve the degraded record
	// to every later caller while the page is fetchable.
	GetLogger().Warning("Scraping failed for %s, using URL text as fallback: %v", rawURL, lastErr)
	return s.fallbackResult(rawURL, lastErr.Error())
}

// fetchOnce performs a single fetch-and-extract attempt
func (s *Scraper) fetchOnce(ctx context.Context, rawURL string) (*AcquiredContent, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout())
	defer cancel()

	if parsed, err := url.Parse(rawURL); err == nil {
		if err := s.hostLimiter(parsed.Host).Wait(attemptCtx); err != nil {
			return nil, NewAcquisitionError(ErrFetchFailed, "rate limit wait interrupted", err)
		}
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewAcquisitionError(ErrFetchFailed, "cannot build request", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewAcquisitionError(ErrFetchFailed, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewAcquisitionError(ErrHTTPStatus, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = resp.Body
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, NewAcquisitionError(ErrFetchFailed, "cannot parse document", err)
	}

	body := s.extractBody(doc)
	if len(body) <= s.cfg.MinBodyChars {
		return nil, NewAcquisitionError(ErrBodyTooShort, "content too short or empty", nil)
	}

	return &AcquiredContent{
		SourceURL:   rawURL,
		Scraped:     true,
		Title:       extractTitle(doc),
		BodyText:    truncateText(body, s.cfg.MaxBodyChars),
		Author:      extractAuthor(doc),
		PublishDate: extractDate(doc),
		Description: extractDescription(doc),
	}, nil
}

// fallbackResult builds the degraded record. BodyText carries the URL
// so pattern scoring still has something to chew on.
func (s *Scraper) fallbackResult(rawURL, errMsg string) *AcquiredContent {
	domain := extractDomain(rawURL)
	title := ""
	if domain != "" {
		title = "Link: " + domain
	}
	return &AcquiredContent{
		SourceURL:          rawURL,
		Domain:             domain,
		IsTrustedSource:    s.IsTrustedSource(rawURL),
		IsSuspiciousDomain: s.IsSuspiciousDomain(rawURL),
		Scraped:            false,
		Title:              title,
		BodyText:           rawURL,
		Note:               "Tautan tidak bisa dibuka, tetap dianalisis dari teks dan pola URL-nya",
		Error:              errMsg,
	}
}

// AcquireMany processes a list of URLs sequentially with a fixed delay
// between items. Failed items degrade to fallback records, never abort
// the batch.
func (s *Scraper) AcquireMany(ctx context.Context, urls []string, delay time.Duration) []*AcquiredContent {
	results := make([]*AcquiredContent, 0, len(urls))
	for i, u := range urls {
		results = append(results, s.Acquire(ctx, u))
		if i < len(urls)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				// Remaining URLs still get a record, just without a fetch
				for _, rest := range urls[i+1:] {
					results = append(results, s.fallbackResult(rest, ctx.Err().Error()))
				}
				return results
			}
		}
	}
	return results
}

// extractDomain pulls the host out of a URL, dropping a leading www.
func extractDomain(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		m := regexp.MustCompile(`https?://([^/]+)/?`).FindStringSubmatch(rawURL)
		if len(m) == 2 {
			return strings.TrimPrefix(strings.ToLower(m[1]), "www.")
		}
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// extractTitle picks the article title: social meta tags first, then
// the first h1, then the document title.
func extractTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := doc.Find(`meta[name="twitter:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return "Tidak ada judul"
}

// extractBody pulls the main article text: semantic containers first,
// then class/id heuristics, then an all-paragraphs fallback.
func (s *Scraper) extractBody(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, aside, iframe").Remove()

	if body := paragraphsText(doc.Find("article").First(), "\n\n"); len(body) > s.cfg.MinBodyChars {
		return cleanText(body)
	}

	var container *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		if bodyContainerRe.MatchString(class) || bodyContainerRe.MatchString(id) {
			container = sel
			return false
		}
		return true
	})
	if container != nil {
		if body := paragraphsText(container, "\n\n"); len(body) > s.cfg.MinBodyChars {
			return cleanText(body)
		}
	}

	return cleanText(paragraphsText(doc.Selection, " "))
}

// paragraphsText joins the non-empty paragraph texts under a selection
func paragraphsText(sel *goquery.Selection, separator string) string {
	if sel == nil {
		return ""
	}
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, separator)
}

func extractAuthor(doc *goquery.Document) string {
	metas := []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`,
	}
	for _, sel := range metas {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	var author string
	doc.Find("span, a, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		rel, _ := sel.Attr("rel")
		if authorClassRe.MatchString(class) || rel == "author" {
			author = strings.TrimSpace(sel.Text())
			return author == ""
		}
		return true
	})
	return author
}

func extractDate(doc *goquery.Document) string {
	metas := []string{
		`meta[property="article:published_time"]`,
		`meta[name="publish_date"]`,
		`meta[name="date"]`,
	}
	for _, sel := range metas {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	timeEl := doc.Find("time").First()
	if v, ok := timeEl.Attr("datetime"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(timeEl.Text()); v != "" {
		return v
	}

	var date string
	doc.Find("time, span, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if dateClassRe.MatchString(class) {
			date = strings.TrimSpace(sel.Text())
			return date == ""
		}
		return true
	})
	return date
}

func extractDescription(doc *goquery.Document) string {
	metas := []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	}
	for _, sel := range metas {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
