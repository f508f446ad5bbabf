package market

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coinscope/market-pipeline/coingecko"
	"github.com/coinscope/market-pipeline/events"
	"github.com/coinscope/market-pipeline/metrics"
)

// Fetcher resolves selections into fetch results. Each call to Fetch starts
// a new cycle and cancels the previous one; results are applied under a
// monotonically increasing cycle id so a stale cycle can never overwrite
// newer state, regardless of network completion order.
type Fetcher struct {
	client        coingecko.APIClient
	metricsWriter *metrics.MetricsWriter
	bus           *events.Bus

	mu      sync.Mutex
	baseCtx context.Context
	cycleID uint64
	cancel  context.CancelFunc
	current FetchResult

	wg sync.WaitGroup
}

// NewFetcher creates a fetcher over the given provider client
func NewFetcher(client coingecko.APIClient) *Fetcher {
	return &Fetcher{
		client:        client,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceFetcher),
		bus:           events.NewBus(),
		current:       EmptyResult(),
	}
}

// Start implements core.Interface
func (f *Fetcher) Start(ctx context.Context) error {
	if f.client == nil {
		return fmt.Errorf("provider client dependency not provided")
	}

	f.mu.Lock()
	f.baseCtx = ctx
	f.mu.Unlock()
	return nil
}

// Stop cancels any in-flight cycle and waits for it to drain
func (f *Fetcher) Stop() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()
	f.wg.Wait()
}

// Updates returns a subscription signalled on every result transition
func (f *Fetcher) Updates() *events.Subscription {
	return f.bus.Subscribe()
}

// CurrentResult returns the result of the newest cycle
func (f *Fetcher) CurrentResult() FetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Fetch starts a new fetch cycle for the selection and returns its cycle id.
// The previous cycle, if still outstanding, is cancelled; its eventual
// completion is dropped silently. The call returns immediately; progress is
// observed through Updates and CurrentResult.
func (f *Fetcher) Fetch(selection Selection) (uint64, error) {
	if !selection.Valid() {
		return 0, fmt.Errorf("invalid selection: %+v", selection)
	}

	f.mu.Lock()

	f.cycleID++
	cycleID := f.cycleID

	if f.cancel != nil {
		f.cancel()
	}

	baseCtx := f.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	cycleCtx, cancel := context.WithCancel(baseCtx)
	f.cancel = cancel

	f.current = FetchResult{Status: StatusLoading, Selection: selection}
	f.mu.Unlock()

	f.bus.Emit()

	log.Printf("Fetcher: Starting cycle %d for coin=%s currency=%s days=%d",
		cycleID, selection.CoinID, selection.CurrencyID, selection.RangeDays)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer cancel()
		f.runCycle(cycleCtx, cycleID, selection)
	}()

	return cycleID, nil
}

// runCycle performs the two dependent provider requests and applies the result
func (f *Fetcher) runCycle(ctx context.Context, cycleID uint64, selection Selection) {
	start := time.Now()

	detail, err := f.client.FetchCoinDetail(ctx, selection.CoinID, selection.CurrencyID)
	if err != nil {
		f.applyFailure(cycleID, selection, err)
		return
	}

	chart, err := f.client.FetchMarketChart(ctx, selection.CoinID, selection.CurrencyID, selection.RangeDays)
	if err != nil {
		f.applyFailure(cycleID, selection, err)
		return
	}

	snapshot := NormalizeSnapshot(detail, selection)
	series := NormalizeSeries(chart, selection.RangeDays)

	f.mu.Lock()
	if cycleID != f.cycleID {
		f.mu.Unlock()
		f.dropStale(cycleID, "completed")
		return
	}
	f.current = FetchResult{
		Status:    StatusSuccess,
		Selection: selection,
		Snapshot:  snapshot,
		Series:    series,
	}
	f.mu.Unlock()

	f.metricsWriter.RecordFetchCycle(time.Since(start))
	log.Printf("Fetcher: Cycle %d resolved %d points for %s", cycleID, len(series), selection.CoinID)
	f.bus.Emit()
}

// applyFailure records a genuine failure on the newest cycle. A cancelled
// cycle resolves to a no-op: its result is dropped without touching state,
// so the currently displayed data stays intact.
func (f *Fetcher) applyFailure(cycleID uint64, selection Selection, err error) {
	failure := Classify(err)
	if failure.IsCancelled() {
		f.dropStale(cycleID, "cancelled")
		return
	}

	f.mu.Lock()
	if cycleID != f.cycleID {
		f.mu.Unlock()
		f.dropStale(cycleID, "failed")
		return
	}
	// A genuine failure on the newest cycle clears previously displayed data
	f.current = FetchResult{
		Status:    StatusFailed,
		Selection: selection,
		Err:       failure,
	}
	f.mu.Unlock()

	log.Printf("Fetcher: Cycle %d failed: %v", cycleID, failure)
	f.bus.Emit()
}

// dropStale accounts for a cycle that lost the race to a newer selection
func (f *Fetcher) dropStale(cycleID uint64, outcome string) {
	f.metricsWriter.RecordSupersededCycle()
	log.Printf("Fetcher: Dropping superseded cycle %d (%s)", cycleID, outcome)
}

// ApplyLivePrice updates the current snapshot price from the live ticker
// stream. The update only lands when the newest result is a success for the
// same coin; stale stream data can never resurrect superseded selections.
func (f *Fetcher) ApplyLivePrice(coinID string, price float64) {
	f.mu.Lock()
	if f.current.Status != StatusSuccess || f.current.Selection.CoinID != coinID {
		f.mu.Unlock()
		return
	}
	f.current.Snapshot.CurrentPrice = price
	f.mu.Unlock()

	f.bus.Emit()
}
