// Package controller owns the selection state and arbitrates re-fetching:
// the rendering layer pushes selection changes and explicit analysis
// triggers in, and consumes the resulting view models read-only.
package controller

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/coinscope/market-pipeline/analysis"
	"github.com/coinscope/market-pipeline/events"
	"github.com/coinscope/market-pipeline/market"
)

// Controller holds the current selection and drives the fetch and analysis
// services. All state transitions flow through the fetcher's cycle
// discipline, so the controller itself stays free of result races.
type Controller struct {
	fetcher  *market.Fetcher
	analyzer *analysis.Service

	mu        sync.Mutex
	selection market.Selection
}

// New creates a controller over the fetch and analysis services
func New(fetcher *market.Fetcher, analyzer *analysis.Service) *Controller {
	return &Controller{
		fetcher:  fetcher,
		analyzer: analyzer,
	}
}

// Start implements core.Interface
func (c *Controller) Start(ctx context.Context) error {
	if c.fetcher == nil {
		return fmt.Errorf("fetcher dependency not provided")
	}
	if c.analyzer == nil {
		return fmt.Errorf("analysis dependency not provided")
	}
	return nil
}

// Stop implements core.Interface
func (c *Controller) Stop() {}

// SetSelection stores the new selection and starts a fetch cycle for it.
// Identical selections re-fetch; there is no result caching by design.
func (c *Controller) SetSelection(selection market.Selection) error {
	if !selection.Valid() {
		return fmt.Errorf("invalid selection: %+v", selection)
	}

	c.mu.Lock()
	c.selection = selection
	c.mu.Unlock()

	log.Printf("Controller: Selection changed to coin=%s currency=%s days=%d",
		selection.CoinID, selection.CurrencyID, selection.RangeDays)

	_, err := c.fetcher.Fetch(selection)
	return err
}

// Refresh re-fetches the current selection. Used by the periodic refresher;
// a refresh before any selection was made is a no-op.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	selection := c.selection
	c.mu.Unlock()

	if !selection.Valid() {
		return nil
	}

	log.Printf("Controller: Refreshing selection coin=%s", selection.CoinID)
	_, err := c.fetcher.Fetch(selection)
	return err
}

// Selection returns the current selection tuple
func (c *Controller) Selection() market.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// FetchResult returns the newest fetch cycle's result
func (c *Controller) FetchResult() market.FetchResult {
	return c.fetcher.CurrentResult()
}

// AnalysisResult returns the most recent analysis result
func (c *Controller) AnalysisResult() analysis.Result {
	return c.analyzer.CurrentResult()
}

// GenerateAnalysis triggers a summary for the currently displayed data set.
// When the current result holds no data the request resolves to an immediate
// no-data failure without any provider call.
func (c *Controller) GenerateAnalysis() error {
	result := c.fetcher.CurrentResult()
	return c.analyzer.Generate(
		result.Snapshot,
		result.Series,
		result.Selection.CurrencyID,
		result.Selection.RangeDays,
	)
}

// FetchUpdates is signalled on every fetch result transition
func (c *Controller) FetchUpdates() *events.Subscription {
	return c.fetcher.Updates()
}

// AnalysisUpdates is signalled on every analysis result transition
func (c *Controller) AnalysisUpdates() *events.Subscription {
	return c.analyzer.Updates()
}
