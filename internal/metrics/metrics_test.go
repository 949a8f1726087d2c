package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robalyx/frost/internal/metrics"
	"github.com/robalyx/frost/internal/mute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var recorder mute.Recorder = m
	recorder.ObserveAction("suspend", 0)
	recorder.ObserveAction("suspend", mute.CauseTransport)
	recorder.ObserveOutcome(mute.CategorySingle.String())
	recorder.ObserveSweep("ok", 20*time.Millisecond, 3)
	recorder.LoopStarted()
	recorder.LoopStarted()
	recorder.LoopStopped()

	expected := `
# HELP frost_mute_actions_total Platform suspend and restore actions by result
# TYPE frost_mute_actions_total counter
frost_mute_actions_total{action="suspend",result="ok"} 1
frost_mute_actions_total{action="suspend",result="transport_error"} 1
# HELP frost_expiry_loops_active Expiry loops currently running
# TYPE frost_expiry_loops_active gauge
frost_expiry_loops_active 1
# HELP frost_expiry_restored_total Members restored by expiry sweeps
# TYPE frost_expiry_restored_total counter
frost_expiry_restored_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"frost_mute_actions_total", "frost_expiry_loops_active", "frost_expiry_restored_total"))

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "frost_mute_outcomes_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "frost_expiry_sweep_duration_seconds"))
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.New(reg).ObserveOutcome("fail")

	srv := httptest.NewServer(metrics.NewHandler(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `frost_mute_outcomes_total{category="fail"} 1`)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- metrics.Serve(ctx, listener, prometheus.NewRegistry(), zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestRunServerDisabled(t *testing.T) {
	t.Parallel()

	assert.NoError(t, metrics.RunServer(context.Background(), "", prometheus.NewRegistry(), zap.NewNop()))
}
