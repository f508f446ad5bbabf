package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coinscope/market-pipeline/analysis"
	"github.com/coinscope/market-pipeline/config"
	"github.com/coinscope/market-pipeline/core"
	"github.com/coinscope/market-pipeline/format"
	"github.com/coinscope/market-pipeline/market"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create and start all services
	registry, ctrl, err := core.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Error setting up services:", err)
	}
	if err := registry.StartAll(ctx); err != nil {
		log.Fatal("Failed to start services:", err)
	}
	defer registry.StopAll()

	// Console output stands in for the rendering layer
	fetchSub := ctrl.FetchUpdates().Watch(ctx, func() {
		printFetchResult(ctrl.FetchResult())
	}, false)
	defer fetchSub.Cancel()

	analysisSub := ctrl.AnalysisUpdates().Watch(ctx, func() {
		printAnalysisResult(ctrl.AnalysisResult())
	}, false)
	defer analysisSub.Cancel()

	// Default selection until the user picks one
	if err := ctrl.SetSelection(market.Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7}); err != nil {
		log.Fatal("Failed to set initial selection:", err)
	}

	<-sigChan
	log.Println("Received shutdown signal, stopping services...")
	cancel()
}

func printFetchResult(result market.FetchResult) {
	switch result.Status {
	case market.StatusLoading:
		log.Printf("Main: Loading %s/%s (%dd)...",
			result.Selection.CoinID, result.Selection.CurrencyID, result.Selection.RangeDays)
	case market.StatusSuccess:
		log.Printf("Main: %s (%s) %s %s, %d chart points",
			result.Snapshot.DisplayName, result.Snapshot.Symbol,
			format.CurrencyAmount(result.Snapshot.CurrentPrice, result.Selection.CurrencyID),
			format.Percent(result.Snapshot.PriceChangePct24h), len(result.Series))
	case market.StatusFailed:
		log.Printf("Main: Fetch failed: %v", result.Err)
	}
}

func printAnalysisResult(result analysis.Result) {
	switch result.Status {
	case analysis.StatusGenerating:
		log.Println("Main: Generating analysis...")
	case analysis.StatusSucceeded:
		log.Printf("Main: Analysis:\n%s", result.Text)
	case analysis.StatusFailed:
		log.Printf("Main: Analysis failed: %v", result.Err)
	}
}
