// cmd/periksa/watcher.go
package main

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Watcher re-analyzes a watch-list of URLs on a cron schedule. It is
// how a deployment keeps an eye on links that resurface in circulation.
type Watcher struct {
	pipeline *Pipeline
	path     string
	delay    time.Duration
	cron     *cron.Cron
}

// NewWatcher creates a watcher over the given watch-list file
func NewWatcher(pipeline *Pipeline, path string, delay time.Duration) *Watcher {
	return &Watcher{
		pipeline: pipeline,
		path:     path,
		delay:    delay,
		cron:     cron.New(),
	}
}

// Start registers the schedule and begins running. An invalid schedule
// is reported to the caller; a missing watch-list only logs per run.
func (w *Watcher) Start(schedule string) error {
	_, err := w.cron.AddFunc(schedule, func() {
		defer RecoverFromPanic("watcher")
		w.RunOnce(context.Background())
	})
	if err != nil {
		return NewConfigError(ErrConfigValidation, "invalid watch schedule", err)
	}
	w.cron.Start()
	GetLogger().Info("Watcher scheduled (%s) over %s", schedule, w.path)
	return nil
}

// Stop halts the schedule, letting a running sweep finish
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// RunOnce analyzes every URL on the watch-list sequentially. Failures
// stay isolated per item.
func (w *Watcher) RunOnce(ctx context.Context) []*AnalysisResult {
	urls, err := LoadWatchlist(w.path)
	if err != nil {
		GetLogger().Warning("Cannot read watch-list %s: %v", w.path, err)
		return nil
	}
	if len(urls) == 0 {
		GetLogger().Info("Watch-list %s is empty", w.path)
		return nil
	}

	GetLogger().Info("Watch sweep started: %d URLs", len(urls))

	inputs := make([]AnalysisInput, 0, len(urls))
	for _, u := range urls {
		inputs = append(inputs, AnalysisInput{RawText: u, URL: u})
	}

	results := w.pipeline.RunMany(ctx, inputs, w.delay, func(i int, res *AnalysisResult) {
		if res.Score != nil && res.Score.Classification != ClassValid {
			GetLogger().Warning("Watch hit [%s]: %s", res.Score.Classification, res.Input.URL)
		}
	})

	GetLogger().Info("Watch sweep done: %s", FormatBatchReport(results))
	return results
}

// LoadWatchlist reads one URL per line, skipping blanks and #-comments
func LoadWatchlist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
