// Package ticker streams live trade prices for the currently selected coin
// over a Binance-style websocket, filling the gap between chart refreshes.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coinscope/market-pipeline/config"
)

const (
	// BASE_WS_URL is the default trade stream endpoint
	BASE_WS_URL = "wss://stream.binance.com:9443/ws"

	// PONG_TIMEOUT is the read deadline; the exchange pings within this window
	PONG_TIMEOUT = 3 * time.Minute
)

// PriceHandler receives live price updates for a watched coin
type PriceHandler func(coinID string, price float64)

// TradeMessage is the trade stream payload, trimmed to the needed fields
type TradeMessage struct {
	EventType string      `json:"e"`
	Symbol    string      `json:"s"`
	Price     json.Number `json:"p"`
}

// Service manages one live price subscription at a time. Watching a new coin
// supersedes the previous stream session; a stale session can never deliver
// updates once a newer one has started.
type Service struct {
	cfg     config.TickerConfig
	handler PriceHandler

	mu        sync.Mutex
	baseCtx   context.Context
	sessionID uint64
	cancel    context.CancelFunc

	wg sync.WaitGroup
}

// NewService creates a ticker service delivering prices to handler
func NewService(cfg config.TickerConfig, handler PriceHandler) *Service {
	return &Service{
		cfg:     cfg,
		handler: handler,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("price handler dependency not provided")
	}

	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	return nil
}

// Stop terminates the current stream session and waits for it to drain
func (s *Service) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Watch switches the live stream to the given coin. The previous session is
// cancelled; its in-flight messages are dropped.
func (s *Service) Watch(coinID, symbol, currencyID string) {
	if !s.cfg.Enabled || symbol == "" {
		return
	}

	stream := streamName(symbol, currencyID)

	s.mu.Lock()
	s.sessionID++
	sessionID := s.sessionID

	if s.cancel != nil {
		s.cancel()
	}

	baseCtx := s.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	sessionCtx, cancel := context.WithCancel(baseCtx)
	s.cancel = cancel
	s.mu.Unlock()

	log.Printf("Ticker: Session %d watching %s (%s)", sessionID, coinID, stream)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.runSession(sessionCtx, sessionID, coinID, stream)
	}()
}

// streamName maps a coin symbol and currency to the exchange stream name.
// Fiat USD trades against the USDT pair; other currencies use their own pair.
func streamName(symbol, currencyID string) string {
	quote := strings.ToLower(currencyID)
	if quote == "usd" {
		quote = "usdt"
	}
	return strings.ToLower(symbol) + quote + "@trade"
}

// runSession dials the stream and pumps messages until the session is
// superseded or the service stops, re-dialing dropped connections.
func (s *Service) runSession(ctx context.Context, sessionID uint64, coinID, stream string) {
	url := s.wsURL() + "/" + stream

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Ticker: Session %d dial failed: %v", sessionID, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.cfg.ReconnectDelay):
			}
			continue
		}

		s.pumpMessages(ctx, conn, sessionID, coinID)
		conn.Close()

		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

// pumpMessages reads trade messages until the connection drops or the
// session ends
func (s *Service) pumpMessages(ctx context.Context, conn *websocket.Conn, sessionID uint64, coinID string) {
	// Close the connection when the session ends to unblock ReadMessage
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetPingHandler(func(appData string) error {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Printf("Ticker: Session %d failed to set read deadline: %v", sessionID, err)
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Ticker: Session %d read error: %v", sessionID, err)
			}
			return
		}

		var trade TradeMessage
		if err := json.Unmarshal(message, &trade); err != nil {
			log.Printf("Ticker: Session %d skipping malformed message: %v", sessionID, err)
			continue
		}

		price, err := trade.Price.Float64()
		if err != nil || price <= 0 {
			continue
		}

		if ctx.Err() != nil {
			return
		}
		s.handler(coinID, price)
	}
}

func (s *Service) wsURL() string {
	if s.cfg.OverrideWSURL != "" {
		return s.cfg.OverrideWSURL
	}
	return BASE_WS_URL
}
