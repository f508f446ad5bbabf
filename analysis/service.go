package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/coinscope/market-pipeline/config"
	"github.com/coinscope/market-pipeline/events"
	"github.com/coinscope/market-pipeline/gemini"
	"github.com/coinscope/market-pipeline/market"
)

// Status enumerates the states of an analysis request
type Status int

const (
	// StatusIdle means no generation has been triggered yet
	StatusIdle Status = iota
	// StatusGenerating means a generation is in flight
	StatusGenerating
	// StatusSucceeded means the last generation produced text
	StatusSucceeded
	// StatusFailed means the last generation failed with a reason
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerating:
		return "generating"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Result is the outcome of the most recent analysis request
type Result struct {
	Status Status
	Text   string
	Err    *market.Failure
}

// Service turns a resolved data set into a generated market summary.
// At most one generation is in flight at a time; identical prompts within
// the cache TTL reuse the previous answer instead of re-billing the provider.
type Service struct {
	generator gemini.TextGenerator
	cache     *gocache.Cache
	bus       *events.Bus

	mu      sync.Mutex
	baseCtx context.Context
	current Result

	wg sync.WaitGroup
}

// NewService creates an analysis service over the given text generator
func NewService(generator gemini.TextGenerator, cfg config.GeminiConfig) *Service {
	var cache *gocache.Cache
	if cfg.PromptCacheTTL > 0 {
		cache = gocache.New(cfg.PromptCacheTTL, 2*cfg.PromptCacheTTL)
	}

	return &Service{
		generator: generator,
		cache:     cache,
		bus:       events.NewBus(),
		current:   Result{Status: StatusIdle},
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.generator == nil {
		return fmt.Errorf("text generator dependency not provided")
	}

	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	return nil
}

// Stop waits for an in-flight generation to drain
func (s *Service) Stop() {
	s.wg.Wait()
}

// Updates returns a subscription signalled on every result transition
func (s *Service) Updates() *events.Subscription {
	return s.bus.Subscribe()
}

// CurrentResult returns the most recent analysis result
func (s *Service) CurrentResult() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Generate builds the prompt for the data set and submits it. The data
// preconditions are checked before any network call; a missing snapshot or
// empty series resolves to an immediate no-data failure. A second trigger
// while one is in flight is rejected without touching state.
func (s *Service) Generate(snapshot market.CoinSnapshot, series market.PriceSeries, currencyID string, rangeDays int) error {
	s.mu.Lock()

	if s.current.Status == StatusGenerating {
		s.mu.Unlock()
		return fmt.Errorf("generation already in flight")
	}

	if snapshot.ID == "" || len(series) == 0 {
		failure := market.NewFailure(market.KindNoData, fmt.Errorf("no data to analyze"))
		s.current = Result{Status: StatusFailed, Err: failure}
		s.mu.Unlock()
		s.bus.Emit()
		return failure
	}

	prompt := BuildPrompt(snapshot, series, currencyID, rangeDays)

	// A fresh identical prompt means an unchanged data set; reuse the answer
	if s.cache != nil {
		if cached, found := s.cache.Get(prompt); found {
			s.current = Result{Status: StatusSucceeded, Text: cached.(string)}
			s.mu.Unlock()
			log.Printf("Analysis: Reusing cached summary for unchanged data set")
			s.bus.Emit()
			return nil
		}
	}

	s.current = Result{Status: StatusGenerating}
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Unlock()

	s.bus.Emit()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runGeneration(ctx, prompt)
	}()

	return nil
}

func (s *Service) runGeneration(ctx context.Context, prompt string) {
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		failure := market.Classify(err)
		// A generation aborted by shutdown is dropped without touching
		// state; cancellation is never a user-visible failure
		if failure.IsCancelled() {
			log.Printf("Analysis: Dropping cancelled generation")
			return
		}

		s.mu.Lock()
		s.current = Result{Status: StatusFailed, Err: failure}
		s.mu.Unlock()

		log.Printf("Analysis: Generation failed: %v", failure)
		s.bus.Emit()
		return
	}

	s.mu.Lock()
	s.current = Result{Status: StatusSucceeded, Text: text}
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.SetDefault(prompt, text)
	}

	log.Printf("Analysis: Generated summary (%d chars)", len(text))
	s.bus.Emit()
}
