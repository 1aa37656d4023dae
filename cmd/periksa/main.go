// cmd/periksa/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to the JSON config file")
	analyzeArg := flag.String("analyze", "", "analyze a single text or URL and exit")
	flag.Parse()

	LoadEnv()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := InitLogger(cfg.LogPath, ParseLogLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}
	logger := GetLogger()
	logger.Info("%s v%s starting", AppName, cfg.Version)

	lexicon, err := LoadLexicon(cfg.LexiconPath)
	if err != nil {
		logger.Error("Cannot build lexicon: %v", err)
		os.Exit(1)
	}
	lexicon.TrustedDomains = LoadTrustedDomains(cfg.TrustedDomainsPath)
	logger.Info("Lexicon ready: %d trusted domains", len(lexicon.TrustedDomains))

	sources, err := LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Error("Cannot load fact-check sources: %v", err)
		os.Exit(1)
	}
	logger.Info("Fact-check sources: %d configured", len(sources))

	reasoner, err := NewReasoner(cfg)
	if err != nil {
		logger.Error("Cannot configure reasoner: %v", err)
		os.Exit(1)
	}
	if reasoner == nil {
		logger.Info("Contextual reasoner disabled")
	}

	scorer := NewScorer(lexicon, cfg.Thresholds)
	scraper := NewScraper(cfg, lexicon.TrustedDomains)
	retriever := NewRetriever(cfg, sources, lexicon)
	pipeline := NewPipeline(scorer, scraper, retriever, reasoner)

	// One-shot mode prints a summary and exits
	if *analyzeArg != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result := pipeline.Run(ctx, AnalysisInput{RawText: *analyzeArg})
		fmt.Println(FormatSummary(result))
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	server := NewServer(cfg, pipeline)

	var watcher *Watcher
	if cfg.WatchlistPath != "" && cfg.WatchCron != "" {
		watcher = NewWatcher(pipeline, cfg.WatchlistPath, cfg.RequestDelay())
		if err := watcher.Start(cfg.WatchCron); err != nil {
			logger.Error("Cannot start watcher: %v", err)
			os.Exit(1)
		}
		if cfg.WatchOnStart {
			go func() {
				defer RecoverFromPanic("watcher")
				watcher.RunOnce(context.Background())
			}()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed: %v", err)
		}
	}

	if watcher != nil {
		watcher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warning("Shutdown incomplete: %v", err)
	}

	logger.Info("Stopped")
	logger.Close()
}
