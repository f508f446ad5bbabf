package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscope/market-pipeline/config"
)

func TestServer_ServesRecordedMetrics(t *testing.T) {
	cfg := config.MetricsConfig{Enabled: true, ListenAddress: "127.0.0.1:0"}
	server := NewServer(cfg)
	require.NoError(t, server.Start(context.Background()))
	defer server.Stop()

	NewMetricsWriter(ServiceFetcher).RecordSupersededCycle()

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), MetricsPrefix+"superseded_cycles_total")
}

func TestServer_DisabledDoesNotListen(t *testing.T) {
	server := NewServer(config.DefaultMetricsConfig())
	require.NoError(t, server.Start(context.Background()))
	server.Stop()

	assert.Empty(t, server.Addr())
}
