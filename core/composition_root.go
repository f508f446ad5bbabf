package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/coinscope/market-pipeline/analysis"
	"github.com/coinscope/market-pipeline/coingecko"
	"github.com/coinscope/market-pipeline/config"
	"github.com/coinscope/market-pipeline/controller"
	"github.com/coinscope/market-pipeline/events"
	"github.com/coinscope/market-pipeline/gemini"
	"github.com/coinscope/market-pipeline/market"
	"github.com/coinscope/market-pipeline/metrics"
	"github.com/coinscope/market-pipeline/scheduler"
	"github.com/coinscope/market-pipeline/ticker"
)

// Setup creates and registers all services. The returned controller is the
// entry point for the rendering layer.
func Setup(ctx context.Context, cfg *config.Config) (*Registry, *controller.Controller, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config not provided")
	}

	registry := NewRegistry()

	// Provider client and the fetch service on top of it
	providerClient := coingecko.NewClient(cfg.Coingecko)
	fetcher := market.NewFetcher(providerClient)
	registry.Register(fetcher)

	// Analysis service over the Gemini text generator
	generator := gemini.NewClient(cfg.Gemini)
	analyzer := analysis.NewService(generator, cfg.Gemini)
	registry.Register(analyzer)

	// Controller owning selection state
	ctrl := controller.New(fetcher, analyzer)
	registry.Register(ctrl)

	// Live ticker feeding price updates back into the current snapshot
	tickerService := ticker.NewService(cfg.Ticker, fetcher.ApplyLivePrice)
	registry.Register(tickerService)

	// Retarget the live stream whenever a fetch for a new coin succeeds
	registry.Register(newStreamRetargeter(ctrl, tickerService))

	// Periodic refresh of the current selection
	if cfg.Refresh.Enabled {
		registry.Register(newRefreshService(ctrl, cfg))
	}

	// Prometheus exposition endpoint
	registry.Register(metrics.NewServer(cfg.Metrics))

	return registry, ctrl, nil
}

// refreshService adapts the scheduler to the service lifecycle
type refreshService struct {
	sched *scheduler.Scheduler
}

func newRefreshService(ctrl *controller.Controller, cfg *config.Config) *refreshService {
	return &refreshService{
		sched: scheduler.New(cfg.Refresh.Interval, func(ctx context.Context) {
			// A failed refresh surfaces through the fetch result itself
			_ = ctrl.Refresh()
		}),
	}
}

func (r *refreshService) Start(ctx context.Context) error {
	r.sched.Start(ctx, false)
	return nil
}

func (r *refreshService) Stop() {
	r.sched.Stop()
}

// streamRetargeter watches fetch transitions and points the live ticker at
// the newest successfully fetched coin. Repeated successes for the same coin
// and currency keep the existing stream session.
type streamRetargeter struct {
	ctrl   *controller.Controller
	ticker *ticker.Service

	mu       sync.Mutex
	sub      *events.Subscription
	lastCoin string
	lastCur  string
}

func newStreamRetargeter(ctrl *controller.Controller, tickerService *ticker.Service) *streamRetargeter {
	return &streamRetargeter{
		ctrl:   ctrl,
		ticker: tickerService,
	}
}

func (s *streamRetargeter) Start(ctx context.Context) error {
	s.sub = s.ctrl.FetchUpdates().Watch(ctx, s.onFetchUpdate, false)
	return nil
}

func (s *streamRetargeter) Stop() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

func (s *streamRetargeter) onFetchUpdate() {
	result := s.ctrl.FetchResult()
	if result.Status != market.StatusSuccess {
		return
	}

	s.mu.Lock()
	changed := result.Snapshot.ID != s.lastCoin || result.Selection.CurrencyID != s.lastCur
	if changed {
		s.lastCoin = result.Snapshot.ID
		s.lastCur = result.Selection.CurrencyID
	}
	s.mu.Unlock()

	if changed {
		s.ticker.Watch(result.Snapshot.ID, result.Snapshot.Symbol, result.Selection.CurrencyID)
	}
}
