// cmd/periksa/constants.go
package main

import "time"

// VERSION is the application version
const VERSION = "1.2.0"

// AppName identifies the application in logs and HTTP headers
const AppName = "periksa"

// Classification values produced by the scorer and the pipeline
const (
	ClassHoax       = "hoax"
	ClassPhishing   = "phishing"
	ClassSuspicious = "suspicious"
	ClassValid      = "valid"
	ClassUnknown    = "unknown"
)

// Pattern families, recorded in evaluation order
const (
	FamilyHoax             = "hoax"
	FamilyPhishing         = "phishing"
	FamilyClickbait        = "clickbait"
	FamilyBroadcastStyle   = "broadcastStyle"
	FamilySuspiciousURL    = "suspiciousUrl"
	FamilyTrustedSource    = "trustedSource"
	FamilySuspiciousDomain = "suspiciousDomain"
)

// Fact-check verdicts extracted from source snippets
const (
	VerdictHoax       = "hoax"
	VerdictMisleading = "misleading"
	VerdictTrue       = "true"
	VerdictUnverified = "unverified"
	VerdictUnknown    = "unknown"
)

// Acquisition defaults
const (
	defaultFetchTimeout  = 6 * time.Second
	defaultFetchAttempts = 2
	defaultMinBodyChars  = 100
	defaultMaxBodyChars  = 6000
	retryBackoff         = 1 * time.Second
)

// Retrieval defaults
const (
	defaultSimilarityThreshold = 0.3
	defaultMaxEvidenceItems    = 5
	maxKeywords                = 5
	maxQueryKeywords           = 3
	maxResultsPerSource        = 3
	maxExcerptChars            = 300
	defaultRequestDelay        = 1 * time.Second
)

// Cache TTLs for acquisition and source query results
const (
	scrapeCacheTTL = 15 * time.Minute
	searchCacheTTL = 30 * time.Minute
	cacheMaxItems  = 512
)
