// cmd/periksa/retriever.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Retriever finds fact-check articles related to a piece of text and
// ranks them by similarity to the input. One source failing never
// prevents the others from contributing.
type Retriever struct {
	client     *http.Client
	feedParser *gofeed.Parser
	sources    []SourceConfig
	lexicon    *Lexicon
	cfg        *Config
	cache      *Cache
	limiters   map[string]*rate.Limiter
	limiterMu  sync.Mutex
}

// NewRetriever creates a retriever over the configured fact-check sources
func NewRetriever(cfg *Config, sources []SourceConfig, lexicon *Lexicon) *Retriever {
	client := &http.Client{
		Timeout: cfg.FetchTimeout(),
	}
	// The feed parser must share the timeout-bounded client, or a stuck
	// feed would hang a sweep through http.DefaultClient.
	feedParser := gofeed.NewParser()
	feedParser.Client = client

	return &Retriever{
		client:     client,
		feedParser: feedParser,
		sources:    sources,
		lexicon:    lexicon,
		cfg:        cfg,
		cache:      NewCache(searchCacheTTL, cacheMaxItems),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// hostLimiter returns the rate limiter for a host, creating it on first use
func (r *Retriever) hostLimiter(host string) *rate.Limiter {
	r.limiterMu.Lock()
	defer r.limiterMu.Unlock()

	limiter, ok := r.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(r.cfg.RequestDelay()), 1)
		r.limiters[host] = limiter
	}
	return limiter
}

// FindRelated extracts keywords from the text, queries every configured
// source with the top keywords, and returns candidates filtered by
// Jaccard similarity against the input, ordered by similarity,
// deduplicated by URL and capped. Zero results is a valid outcome.
func (r *Retriever) FindRelated(ctx context.Context, text string) *EvidenceSet {
	set := &EvidenceSet{
		KeywordsUsed: ExtractKeywords(text, r.lexicon.Stopwords, maxKeywords),
	}

	queryKeywords := set.KeywordsUsed
	if len(queryKeywords) > maxQueryKeywords {
		queryKeywords = queryKeywords[:maxQueryKeywords]
	}

	var candidates []FactCheckItem
	for _, keyword := range queryKeywords {
		var batch []FactCheckItem
		for _, src := range r.sources {
			items, err := r.searchSource(ctx, keyword, src)
			if err != nil {
				GetLogger().Warning("Source %s failed for %q: %v", src.Name, keyword, err)
				set.Errors = append(set.Errors, fmt.Sprintf("%s: %v", src.Name, err))
				continue
			}
			batch = append(batch, items...)
		}
		// Relevance only orders candidates inside one keyword query;
		// the final ordering is by similarity.
		rankByRelevance(batch, keyword)
		candidates = append(candidates, batch...)
	}

	var related []FactCheckItem
	for _, item := range candidates {
		similarity := JaccardSimilarity(text, item.Title+" "+item.Excerpt)
		if similarity >= r.cfg.SimilarityThreshold {
			item.SimilarityScore = similarity
			related = append(related, item)
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].SimilarityScore > related[j].SimilarityScore
	})

	seen := make(map[string]bool)
	var unique []FactCheckItem
	for _, item := range related {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}

	set.TotalFound = len(unique)
	if len(unique) > r.cfg.MaxEvidenceItems {
		unique = unique[:r.cfg.MaxEvidenceItems]
	}
	set.Items = unique
	return set
}

// searchSource queries one source for one keyword, with caching
func (r *Retriever) searchSource(ctx context.Context, keyword string, src SourceConfig) ([]FactCheckItem, error) {
	cacheKey := src.Name + "|" + keyword
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]FactCheckItem), nil
	}

	var items []FactCheckItem
	var err error
	switch src.Kind {
	case "feed":
		items, err = r.searchFeed(ctx, keyword, src)
	default:
		items, err = r.searchHTML(ctx, keyword, src)
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(cacheKey, items)
	return items, nil
}

// searchHTML scrapes a source's search results page with its selectors
func (r *Retriever) searchHTML(ctx context.Context, keyword string, src SourceConfig) ([]FactCheckItem, error) {
	searchURL := strings.Replace(src.SearchURL, "{query}", url.QueryEscape(keyword), 1)

	doc, err := r.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var items []FactCheckItem
	doc.Find(src.Selectors.Articles).EachWithBreak(func(i int, article *goquery.Selection) bool {
		if i >= maxResultsPerSource {
			return false
		}

		title := strings.TrimSpace(article.Find(src.Selectors.Title).First().Text())
		link, _ := article.Find(src.Selectors.Link).First().Attr("href")
		if title == "" || link == "" {
			return true
		}
		if !strings.HasPrefix(link, "http") {
			link = src.BaseURL + link
		}

		excerpt := strings.TrimSpace(article.Find(src.Selectors.Excerpt).First().Text())
		date := strings.TrimSpace(article.Find(src.Selectors.Date).First().Text())

		items = append(items, FactCheckItem{
			Source:          src.Name,
			Title:           title,
			URL:             link,
			Excerpt:         truncateText(excerpt, maxExcerptChars),
			PublishDateText: date,
			Verdict:         r.extractVerdict(title, excerpt),
		})
		return true
	})
	return items, nil
}

// searchFeed reads a source's RSS feed and keeps items mentioning the keyword
func (r *Retriever) searchFeed(ctx context.Context, keyword string, src SourceConfig) ([]FactCheckItem, error) {
	if u, err := url.Parse(src.FeedURL); err == nil {
		if err := r.hostLimiter(u.Host).Wait(ctx); err != nil {
			return nil, NewSourceError(ErrSourceQuery, "rate limit wait interrupted", err)
		}
	}

	feed, err := r.feedParser.ParseURLWithContext(src.FeedURL, ctx)
	if err != nil {
		return nil, NewSourceError(ErrSourceQuery, fmt.Sprintf("cannot read feed %s", src.FeedURL), err)
	}

	lowerKeyword := strings.ToLower(keyword)
	var items []FactCheckItem
	for _, entry := range feed.Items {
		if len(items) >= maxResultsPerSource {
			break
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}

		excerpt := cleanText(htmlTagRe.ReplaceAllString(entry.Description, " "))
		haystack := strings.ToLower(entry.Title + " " + excerpt)
		if !strings.Contains(haystack, lowerKeyword) {
			continue
		}

		items = append(items, FactCheckItem{
			Source:          src.Name,
			Title:           entry.Title,
			URL:             entry.Link,
			Excerpt:         truncateText(excerpt, maxExcerptChars),
			PublishDateText: entry.Published,
			Verdict:         r.extractVerdict(entry.Title, excerpt),
		})
	}
	return items, nil
}

// fetchDocument retrieves and parses one page, honoring per-host spacing
func (r *Retriever) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if u, err := url.Parse(pageURL); err == nil {
		if err := r.hostLimiter(u.Host).Wait(ctx); err != nil {
			return nil, NewSourceError(ErrSourceQuery, "rate limit wait interrupted", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, NewSourceError(ErrSourceQuery, "cannot build request", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, NewSourceError(ErrSourceQuery, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceError(ErrSourceQuery, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = resp.Body
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, NewSourceError(ErrSourceParse, "cannot parse page", err)
	}
	return doc, nil
}

// extractVerdict scans title and excerpt for verdict markers. The first
// rule with any keyword present wins, in the lexicon's fixed order.
func (r *Retriever) extractVerdict(title, excerpt string) string {
	text := strings.ToLower(title + " " + excerpt)
	for _, rule := range r.lexicon.Verdicts {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Verdict
			}
		}
	}
	return VerdictUnknown
}

// rankByRelevance scores candidates against the query terms and sorts
// them in place, best first. Clear verdicts and recent dates get a
// fixed bonus.
func rankByRelevance(items []FactCheckItem, query string) {
	queryTerms := Tokenize(query)

	for i := range items {
		text := strings.ToLower(items[i].Title + " " + items[i].Excerpt)

		score := 0.0
		for _, term := range queryTerms {
			score += float64(countOccurrences(text, term))
		}
		if items[i].Verdict == VerdictHoax || items[i].Verdict == VerdictTrue {
			score += 5
		}
		dateText := strings.ToLower(items[i].PublishDateText)
		if strings.Contains(dateText, "hari") || strings.Contains(dateText, "jam") {
			score += 3
		}
		items[i].RelevanceScore = score
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
}
