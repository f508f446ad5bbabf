package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscope/market-pipeline/coingecko"
)

// stubClient implements coingecko.APIClient with overridable behavior
type stubClient struct {
	detailFn func(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error)
	chartFn  func(ctx context.Context, coinID, currencyID string, days int) (*coingecko.MarketChart, error)
}

func (s *stubClient) FetchCoinDetail(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error) {
	if s.detailFn != nil {
		return s.detailFn(ctx, coinID, currencyID)
	}
	return testDetail(coinID, 65000, -2.5), nil
}

func (s *stubClient) FetchMarketChart(ctx context.Context, coinID, currencyID string, days int) (*coingecko.MarketChart, error) {
	if s.chartFn != nil {
		return s.chartFn(ctx, coinID, currencyID, days)
	}
	return &coingecko.MarketChart{
		Prices: []coingecko.ChartPoint{{1700000000000, 64000}, {1700086400000, 65000}},
	}, nil
}

func (s *stubClient) Healthy() bool { return true }

func testDetail(coinID string, price, changePct float64) *coingecko.CoinDetail {
	detail := &coingecko.CoinDetail{
		ID:     coinID,
		Symbol: coinID[:3],
		Name:   coinID,
		MarketData: &coingecko.MarketData{
			CurrentPrice:             map[string]float64{"usd": price, "eur": price},
			PriceChangePercentage24h: changePct,
		},
	}
	return detail
}

func startedFetcher(t *testing.T, client coingecko.APIClient) *Fetcher {
	t.Helper()
	fetcher := NewFetcher(client)
	require.NoError(t, fetcher.Start(context.Background()))
	t.Cleanup(fetcher.Stop)
	return fetcher
}

func waitForStatus(t *testing.T, fetcher *Fetcher, status FetchStatus) FetchResult {
	t.Helper()
	require.Eventually(t, func() bool {
		return fetcher.CurrentResult().Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return fetcher.CurrentResult()
}

func TestFetcher_StartWithoutClient(t *testing.T) {
	fetcher := NewFetcher(nil)
	err := fetcher.Start(context.Background())
	assert.Error(t, err)
}

func TestFetcher_InvalidSelection(t *testing.T) {
	fetcher := startedFetcher(t, &stubClient{})

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 0})
	assert.Error(t, err)

	_, err = fetcher.Fetch(Selection{CurrencyID: "usd", RangeDays: 7})
	assert.Error(t, err)
}

func TestFetcher_SuccessfulCycle(t *testing.T) {
	fetcher := startedFetcher(t, &stubClient{})

	selection := Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7}
	_, err := fetcher.Fetch(selection)
	require.NoError(t, err)

	result := waitForStatus(t, fetcher, StatusSuccess)
	assert.Equal(t, selection, result.Selection)
	assert.Equal(t, float64(65000), result.Snapshot.CurrentPrice)
	assert.Equal(t, -2.5, result.Snapshot.PriceChangePct24h)
	require.Len(t, result.Series, 2)
	assert.Equal(t, float64(64000), result.Series[0].Price)
}

func TestFetcher_FailureClearsPreviousData(t *testing.T) {
	client := &stubClient{}
	fetcher := startedFetcher(t, client)

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)
	waitForStatus(t, fetcher, StatusSuccess)

	client.detailFn = func(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error) {
		return nil, &coingecko.StatusError{StatusCode: 500, Body: "boom"}
	}

	_, err = fetcher.Fetch(Selection{CoinID: "ethereum", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)

	result := waitForStatus(t, fetcher, StatusFailed)
	require.NotNil(t, result.Err)
	assert.Equal(t, KindUpstreamStatus, result.Err.Kind)
	// Stale bitcoin data must not linger after a genuine failure
	assert.Empty(t, result.Snapshot.ID)
	assert.Empty(t, result.Series)
}

func TestFetcher_SupersededCycleNeverOverwrites(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{}
	client.detailFn = func(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error) {
		if coinID == "bitcoin" {
			// Simulate a slow first cycle that ignores cancellation
			<-release
			return testDetail("bitcoin", 65000, -2.5), nil
		}
		return testDetail("ethereum", 3200, 1.1), nil
	}

	fetcher := startedFetcher(t, client)

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)

	_, err = fetcher.Fetch(Selection{CoinID: "ethereum", CurrencyID: "eur", RangeDays: 7})
	require.NoError(t, err)

	result := waitForStatus(t, fetcher, StatusSuccess)
	assert.Equal(t, "ethereum", result.Snapshot.ID)

	// Let the stale bitcoin cycle complete after the newer cycle already won
	close(release)
	time.Sleep(100 * time.Millisecond)

	final := fetcher.CurrentResult()
	assert.Equal(t, StatusSuccess, final.Status)
	assert.Equal(t, "ethereum", final.Snapshot.ID)
	assert.Equal(t, "eur", final.Selection.CurrencyID)
}

func TestFetcher_CancelledCycleIsNotAFailure(t *testing.T) {
	client := &stubClient{}
	client.detailFn = func(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error) {
		if coinID == "bitcoin" {
			// Honor cancellation like the real client does
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return testDetail("ethereum", 3200, 1.1), nil
	}

	fetcher := startedFetcher(t, client)

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)

	_, err = fetcher.Fetch(Selection{CoinID: "ethereum", CurrencyID: "eur", RangeDays: 7})
	require.NoError(t, err)

	result := waitForStatus(t, fetcher, StatusSuccess)
	assert.Equal(t, "ethereum", result.Snapshot.ID)

	// The cancelled bitcoin cycle must never surface as a failure
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StatusSuccess, fetcher.CurrentResult().Status)
}

func TestFetcher_LoadingStateWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{}
	client.detailFn = func(ctx context.Context, coinID, currencyID string) (*coingecko.CoinDetail, error) {
		<-release
		return testDetail(coinID, 100, 0), nil
	}

	fetcher := startedFetcher(t, client)

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)

	assert.Equal(t, StatusLoading, fetcher.CurrentResult().Status)
	close(release)
	waitForStatus(t, fetcher, StatusSuccess)
}

func TestFetcher_UpdatesEmitted(t *testing.T) {
	fetcher := startedFetcher(t, &stubClient{})

	sub := fetcher.Updates()
	defer sub.Cancel()

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)

	select {
	case <-sub.Chan():
	case <-time.After(2 * time.Second):
		t.Fatal("expected at least one update event")
	}
}

func TestFetcher_ApplyLivePrice(t *testing.T) {
	fetcher := startedFetcher(t, &stubClient{})

	_, err := fetcher.Fetch(Selection{CoinID: "bitcoin", CurrencyID: "usd", RangeDays: 7})
	require.NoError(t, err)
	waitForStatus(t, fetcher, StatusSuccess)

	fetcher.ApplyLivePrice("bitcoin", 66000)
	assert.Equal(t, float64(66000), fetcher.CurrentResult().Snapshot.CurrentPrice)

	// Updates for a different coin are dropped
	fetcher.ApplyLivePrice("ethereum", 1)
	assert.Equal(t, float64(66000), fetcher.CurrentResult().Snapshot.CurrentPrice)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"context canceled", context.Canceled, KindCancelled},
		{"malformed payload", coingecko.ErrMalformedPayload, KindMalformed},
		{"upstream status", &coingecko.StatusError{StatusCode: 502}, KindUpstreamStatus},
		{"plain transport error", errors.New("connection refused"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Classify(tt.err).Kind)
		})
	}
}
