package services

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

func TestGateway_ReadNamed(t *testing.T) {
	kv := newCountingStore()
	g := NewGateway(kv)

	var out map[string]any
	assert.False(t, g.ReadNamed("absent", &out))

	require.NoError(t, kv.KVStore.Set("corrupt", "{not json"))
	assert.False(t, g.ReadNamed("corrupt", &out))

	require.NoError(t, kv.KVStore.Set("ok", `{"a":1}`))
	assert.True(t, g.ReadNamed("ok", &out))
	assert.Equal(t, 1.0, out["a"])
}

func TestGateway_WriteNamedStampsAndNotifies(t *testing.T) {
	g, _, _, kv := newStores()
	var keys []string
	g.Subscribe(NewListener(func(key string) { keys = append(keys, key) }))

	value := domain.DefaultMetrics()
	require.NoError(t, g.WriteNamed(driving.MetricsKey, &value))

	assert.False(t, value.LastUpdated.IsZero())
	assert.Equal(t, []string{driving.MetricsKey}, keys)
	assert.Equal(t, 1, kv.Writes())
}

func TestGateway_SubscribeIsIdempotent(t *testing.T) {
	g := NewGateway(newCountingStore())
	var calls int32
	l := NewListener(func(string) { atomic.AddInt32(&calls, 1) })

	g.Subscribe(l)
	g.Subscribe(l)

	require.NoError(t, g.WriteNamed("k", map[string]any{}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	g.Unsubscribe(l)
	require.NoError(t, g.WriteNamed("k", map[string]any{}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGateway_PanickingListenerDoesNotStopOthers(t *testing.T) {
	g := NewGateway(newCountingStore())
	var calls int32
	g.Subscribe(NewListener(func(string) { panic("boom") }))
	g.Subscribe(NewListener(func(string) { atomic.AddInt32(&calls, 1) }))

	assert.NotPanics(t, func() {
		require.NoError(t, g.WriteNamed("k", map[string]any{}))
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGateway_FailedWriteStillNotifies(t *testing.T) {
	kv := newCountingStore()
	kv.failSet = domain.ErrQuotaExceeded
	g := NewGateway(kv)
	var calls int32
	g.Subscribe(NewListener(func(string) { atomic.AddInt32(&calls, 1) }))

	err := g.WriteNamed("k", map[string]any{})

	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGateway_ReentrantWriteIsQueued(t *testing.T) {
	g, metrics, _, kv := newStores()

	var order []string
	var reentered bool
	g.Subscribe(NewListener(func(key string) {
		order = append(order, "start:"+key)
		if !reentered {
			reentered = true
			metrics.RecordQuery()
		}
		order = append(order, "end:"+key)
	}))

	metrics.RecordOutcome(true)

	assert.Equal(t, []string{
		"start:" + driving.MetricsKey,
		"end:" + driving.MetricsKey,
		"start:" + driving.MetricsKey,
		"end:" + driving.MetricsKey,
	}, order)
	assert.Equal(t, 2, kv.Writes())
	assert.Equal(t, 1, metrics.Load().Analytics.Performance.QueriesProcessed)
}

func TestGateway_ImportRejectsBadInput(t *testing.T) {
	g, metrics, _, kv := newStores()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"array", "[1,2]"},
		{"string", `"metrics"`},
		{"neither section", `{"exportedAt":"2025-01-01T00:00:00Z"}`},
		{"null sections", `{"metrics":null,"dashboard":null}`},
		{"metrics not an object", `{"metrics":[1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.ImportJSON([]byte(tt.data))
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Message)
		})
	}
	assert.Equal(t, 0, kv.Writes())
	assert.Zero(t, metrics.Load().Metrics)
}

func TestGateway_ImportValidatesBeforeWriting(t *testing.T) {
	g, _, dashboard, kv := newStores()

	result := g.ImportJSON([]byte(`{"metrics":{"metrics":{"totalDocuments":3}},"dashboard":"broken"}`))

	assert.False(t, result.Success)
	assert.Equal(t, 0, kv.Writes())
	assert.Equal(t, "Dashboard", dashboard.Load().Headers.MainTitle)
}

func TestGateway_ImportSingleSection(t *testing.T) {
	g, metrics, dashboard, _ := newStores()
	var notified []string
	g.Subscribe(NewListener(func(key string) { notified = append(notified, key) }))

	result := g.ImportJSON([]byte(`{"dashboard":{"headers":{"mainTitle":"Imported"}}}`))

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Imported", dashboard.Load().Headers.MainTitle)
	assert.NotNil(t, dashboard.Load().Notifications)
	assert.Zero(t, metrics.Load().Metrics.TotalDocuments)
	assert.Equal(t, []string{driving.DashboardKey}, notified)
}

func TestGateway_RoundTrip(t *testing.T) {
	g, metrics, dashboard, _ := newStores()

	for i := 0; i < 3; i++ {
		metrics.IngestDocument(domain.DocumentRecord{FileName: "f.pdf", Type: "pdf", Categories: []string{"c"}})
	}
	metrics.RecordOutcome(true)
	metrics.RecordOutcome(false)
	metrics.IngestAnalysis(domain.AnalysisResult{
		SourceName: "notes",
		Elements:   []domain.Element{{Category: "a", ChunksGenerated: 2, Keywords: []string{}}},
	})
	dashboard.AddNotification(domain.Notification{Message: "hello"})
	dashboard.SetSystemStatus(domain.SystemDegraded, "slow")

	before := normalisedJSON(t, metrics.Load(), dashboard.Load())

	exported, err := json.Marshal(g.ExportAll())
	require.NoError(t, err)

	metrics.Reset()
	dashboard.Reset()

	result := g.ImportJSON(exported)
	require.True(t, result.Success, result.Message)

	after := normalisedJSON(t, metrics.Load(), dashboard.Load())
	assert.JSONEq(t, before, after)
	assert.Equal(t, before, after)
}

func TestGateway_ExportAllShape(t *testing.T) {
	g, metrics, _, _ := newStores()
	metrics.RecordQuery()

	data, err := json.Marshal(g.ExportAll())
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "metrics")
	assert.Contains(t, fields, "dashboard")
	assert.Contains(t, fields, "exportedAt")
}

func TestGateway_ClearAll(t *testing.T) {
	g, metrics, dashboard, kv := newStores()
	metrics.IngestDocument(domain.DocumentRecord{FileName: "a.pdf", Type: "pdf"})
	dashboard.AddNotification(domain.Notification{Message: "x"})
	var notified int32
	g.Subscribe(NewListener(func(string) { atomic.AddInt32(&notified, 1) }))

	result := g.ClearAll()

	require.True(t, result.Success)
	assert.Equal(t, 2, kv.removes)
	assert.Zero(t, metrics.Load().Metrics)
	assert.Empty(t, metrics.History())
	assert.Empty(t, dashboard.Load().Notifications)
	assert.Equal(t, int32(2), atomic.LoadInt32(&notified))
}

func TestGateway_UnboundSections(t *testing.T) {
	kv := newCountingStore()
	g := NewGateway(kv)
	require.NoError(t, kv.KVStore.Set(driving.MetricsKey, `{"metrics":{"totalDocuments":2}}`))

	snap := g.ExportAll()
	assert.True(t, snap.HasMetrics())
	assert.False(t, snap.HasDashboard())

	result := g.ImportAll(domain.Snapshot{Dashboard: json.RawMessage(`{"headers":{}}`)})
	require.True(t, result.Success)

	var stored map[string]any
	assert.True(t, g.ReadNamed(driving.DashboardKey, &stored))
	assert.Contains(t, stored, "lastUpdated")
}

func TestGateway_ImportReportsStorageErrors(t *testing.T) {
	g, _, _, kv := newStores()
	kv.failSet = errors.New("disk full")

	result := g.ImportJSON([]byte(`{"metrics":{}}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "disk full")
}

func normalisedJSON(t *testing.T, m domain.MetricsAggregate, d domain.DashboardConfig) string {
	t.Helper()
	m.LastUpdated = testEpoch
	d.LastUpdated = testEpoch
	data, err := json.Marshal(map[string]any{"metrics": m, "dashboard": d})
	require.NoError(t, err)
	return string(data)
}
