package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driving.PersistenceGateway = (*Gateway)(nil)

// Timestamped values are stamped with the write time before they are stored.
type Timestamped interface {
	SetLastUpdated(t time.Time)
}

// boundStore is a store whose durable state lives under one gateway key.
type boundStore interface {
	durableKey() string
	snapshotJSON() ([]byte, error)
	validate(raw []byte) error
	restore(raw []byte) error
	resetDefaults()
}

// Gateway owns the durable representation of every store and notifies
// listeners after each write.
//
// Notifications are delivered synchronously by the writer. A write issued
// while a dispatch is running (from a listener, or from another goroutine)
// is persisted immediately, but its notification is queued and delivered by
// the active dispatcher once the current round is over.
type Gateway struct {
	store driven.KeyValueStore
	now   func() time.Time

	mu        sync.RWMutex
	listeners map[driving.Listener]struct{}
	bindings  []boundStore

	dispatchMu  sync.Mutex
	dispatching bool
	pending     []string
}

// GatewayOption configures the gateway.
type GatewayOption func(*Gateway)

// WithClock sets the clock used to stamp writes.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGateway creates a gateway over the given key-value store.
func NewGateway(store driven.KeyValueStore, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:     store,
		now:       time.Now,
		listeners: make(map[driving.Listener]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Now returns the gateway clock reading.
func (g *Gateway) Now() time.Time {
	return g.now()
}

func (g *Gateway) bind(s boundStore) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bindings = append(g.bindings, s)
}

func (g *Gateway) binding(key string) boundStore {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, b := range g.bindings {
		if b.durableKey() == key {
			return b
		}
	}
	return nil
}

// ReadNamed decodes the value stored under key into out.
// It returns false if the key is absent, unreadable or corrupt; corrupt
// data is logged.
func (g *Gateway) ReadNamed(key string, out any) bool {
	raw, ok, err := g.store.Get(key)
	if err != nil {
		logger.Warn("read %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Warn("corrupt data under %s: %v", key, err)
		return false
	}
	return true
}

// WriteNamed stamps, serialises and stores value under key, then notifies
// every listener. A failed write is logged and returned; listeners are
// notified either way because the in-memory state has changed.
func (g *Gateway) WriteNamed(key string, value any) error {
	err := g.persist(key, value)
	g.notify(key)
	return err
}

func (g *Gateway) persist(key string, value any) error {
	if ts, ok := value.(Timestamped); ok {
		ts.SetLastUpdated(g.now())
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("encode %s: %v", key, err)
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.store.Set(key, string(data)); err != nil {
		logger.Warn("write %s: %v", key, err)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Subscribe registers a listener. Subscribing twice has no effect.
func (g *Gateway) Subscribe(l driving.Listener) {
	if l == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners[l] = struct{}{}
}

// Unsubscribe removes a listener.
func (g *Gateway) Unsubscribe(l driving.Listener) {
	if l == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.listeners, l)
}

func (g *Gateway) notify(key string) {
	g.dispatchMu.Lock()
	g.pending = append(g.pending, key)
	if g.dispatching {
		g.dispatchMu.Unlock()
		return
	}
	g.dispatching = true
	for len(g.pending) > 0 {
		next := g.pending[0]
		g.pending = g.pending[1:]
		g.dispatchMu.Unlock()

		for _, l := range g.currentListeners() {
			g.call(l, next)
		}

		g.dispatchMu.Lock()
	}
	g.dispatching = false
	g.dispatchMu.Unlock()
}

func (g *Gateway) currentListeners() []driving.Listener {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]driving.Listener, 0, len(g.listeners))
	for l := range g.listeners {
		out = append(out, l)
	}
	return out
}

func (g *Gateway) call(l driving.Listener, key string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("listener panicked on %s: %v", key, r)
		}
	}()
	l.OnChange(key)
}

// ExportAll returns a snapshot of both stores' current state.
func (g *Gateway) ExportAll() domain.Snapshot {
	return domain.Snapshot{
		Metrics:    g.section(driving.MetricsKey),
		Dashboard:  g.section(driving.DashboardKey),
		ExportedAt: g.now(),
	}
}

func (g *Gateway) section(key string) json.RawMessage {
	if b := g.binding(key); b != nil {
		data, err := b.snapshotJSON()
		if err != nil {
			logger.Warn("export %s: %v", key, err)
			return nil
		}
		return data
	}
	raw, ok, err := g.store.Get(key)
	if err != nil {
		logger.Warn("export %s: %v", key, err)
		return nil
	}
	if !ok || !json.Valid([]byte(raw)) {
		return nil
	}
	return json.RawMessage(raw)
}

// ImportJSON decodes a backup file and imports it.
func (g *Gateway) ImportJSON(data []byte) domain.OperationResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return domain.Failed("backup is not a JSON object")
	}
	snapshot := domain.Snapshot{
		Metrics:   fields["metrics"],
		Dashboard: fields["dashboard"],
	}
	return g.ImportAll(snapshot)
}

// ImportAll restores whichever sections the snapshot carries. Every
// section is validated before anything is written, so a bad backup
// changes nothing.
func (g *Gateway) ImportAll(snapshot domain.Snapshot) domain.OperationResult {
	sections := make(map[string]json.RawMessage, 2)
	if snapshot.HasMetrics() {
		sections[driving.MetricsKey] = snapshot.Metrics
	}
	if snapshot.HasDashboard() {
		sections[driving.DashboardKey] = snapshot.Dashboard
	}
	if len(sections) == 0 {
		return domain.Failed("backup contains neither metrics nor dashboard data")
	}

	for _, key := range []string{driving.MetricsKey, driving.DashboardKey} {
		raw, ok := sections[key]
		if !ok {
			continue
		}
		if err := g.validateSection(key, raw); err != nil {
			return domain.Failed(fmt.Sprintf("invalid %s section: %v", sectionName(key), err))
		}
	}

	var errs []error
	for _, key := range []string{driving.MetricsKey, driving.DashboardKey} {
		raw, ok := sections[key]
		if !ok {
			continue
		}
		if err := g.restoreSection(key, raw); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return domain.Failed(fmt.Sprintf("imported with storage errors: %v", err))
	}
	return domain.Succeeded(fmt.Sprintf("imported %d section(s)", len(sections)))
}

func (g *Gateway) validateSection(key string, raw json.RawMessage) error {
	if b := g.binding(key); b != nil {
		return b.validate(raw)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return domain.ErrInvalidSnapshot
	}
	return nil
}

func (g *Gateway) restoreSection(key string, raw json.RawMessage) error {
	if b := g.binding(key); b != nil {
		return b.restore(raw)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	obj["lastUpdated"] = g.now()
	return g.WriteNamed(key, obj)
}

// ClearAll removes both durable keys and resets every bound store to defaults.
func (g *Gateway) ClearAll() domain.OperationResult {
	var errs []error
	for _, key := range []string{driving.MetricsKey, driving.DashboardKey} {
		if err := g.store.Remove(key); err != nil {
			logger.Warn("remove %s: %v", key, err)
			errs = append(errs, err)
		}
	}

	g.mu.RLock()
	bindings := append([]boundStore(nil), g.bindings...)
	g.mu.RUnlock()
	for _, b := range bindings {
		b.resetDefaults()
	}

	if err := errors.Join(errs...); err != nil {
		return domain.Failed(fmt.Sprintf("cleared with storage errors: %v", err))
	}
	return domain.Succeeded("all data cleared")
}

func sectionName(key string) string {
	switch key {
	case driving.MetricsKey:
		return "metrics"
	case driving.DashboardKey:
		return "dashboard"
	default:
		return key
	}
}

// funcListener adapts a function to driving.Listener.
type funcListener struct {
	fn func(key string)
}

func (l *funcListener) OnChange(key string) {
	l.fn(key)
}

// NewListener wraps fn in a listener. Each call returns a distinct listener,
// so keep the returned value to unsubscribe later.
func NewListener(fn func(key string)) driving.Listener {
	return &funcListener{fn: fn}
}
