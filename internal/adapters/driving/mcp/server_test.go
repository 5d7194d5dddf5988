package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil metrics service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingMetricsService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		metrics, _ := newStores()
		server, err := NewServer(&Ports{Metrics: metrics})
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.Equal(t, DefaultVersion, server.Version())
	})

	t.Run("options", func(t *testing.T) {
		metrics, _ := newStores()
		server, err := NewServer(&Ports{Metrics: metrics}, WithVersion("1.2.3"), WithVersion(""))
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", server.Version())
		assert.NotNil(t, server.Handler())
	})
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	metrics, _ := newStores()
	server, err := NewServer(&Ports{Metrics: metrics}, WithShutdownTimeout(time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestPorts_Validate(t *testing.T) {
	metrics, dashboard := newStores()

	t.Run("metrics only is valid", func(t *testing.T) {
		ports := &Ports{Metrics: metrics}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Metrics:   metrics,
			Dashboard: dashboard,
			Analysis:  &mockAnalysisService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
