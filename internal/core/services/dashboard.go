package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ensure DashboardService implements the interface.
var _ driving.DashboardService = (*DashboardService)(nil)

// DashboardService holds the working copy of the dashboard configuration.
// It shares the gateway with the metrics store but never touches metrics.
type DashboardService struct {
	gateway *Gateway

	mu     sync.Mutex
	loaded bool
	state  domain.DashboardConfig
	lastID int64
}

// NewDashboardService creates the dashboard store and binds it to the gateway.
func NewDashboardService(gateway *Gateway) *DashboardService {
	s := &DashboardService{gateway: gateway}
	gateway.bind(s)
	return s
}

// ensureLoaded reads the durable copy once (caller must hold lock).
func (s *DashboardService) ensureLoaded() {
	if s.loaded {
		return
	}
	var stored domain.DashboardConfig
	if s.gateway.ReadNamed(driving.DashboardKey, &stored) {
		stored.Normalise()
		s.state = stored
	} else {
		s.state = domain.DefaultDashboard()
	}
	s.trackIDs()
	s.loaded = true
}

func (s *DashboardService) trackIDs() {
	for _, n := range s.state.Notifications {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
}

func (s *DashboardService) mutate(fn func(d *domain.DashboardConfig)) domain.DashboardConfig {
	s.mu.Lock()
	s.ensureLoaded()
	fn(&s.state)
	durable := s.state.Clone()
	_ = s.gateway.persist(driving.DashboardKey, &durable)
	s.state.LastUpdated = durable.LastUpdated
	out := s.state.Clone()
	s.mu.Unlock()

	s.gateway.notify(driving.DashboardKey)
	return out
}

// Load returns the current configuration.
func (s *DashboardService) Load() domain.DashboardConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return s.state.Clone()
}

// Reset overwrites the configuration with defaults.
func (s *DashboardService) Reset() domain.DashboardConfig {
	return s.mutate(func(d *domain.DashboardConfig) {
		*d = domain.DefaultDashboard()
		d.SystemStatus.LastCheck = s.gateway.Now()
	})
}

// UpdateHeaders applies a partial update to the headers.
func (s *DashboardService) UpdateHeaders(update domain.HeadersUpdate) domain.DashboardConfig {
	if update.IsEmpty() {
		return s.Load()
	}
	return s.mutate(func(d *domain.DashboardConfig) {
		d.Headers = update.Apply(d.Headers)
	})
}

// AddNotification stamps and prepends a notification, keeping the newest 20.
func (s *DashboardService) AddNotification(n domain.Notification) domain.Notification {
	var stored domain.Notification
	s.mutate(func(d *domain.DashboardConfig) {
		now := s.gateway.Now()
		id := now.UnixMilli()
		if id <= s.lastID {
			id = s.lastID + 1
		}
		s.lastID = id
		n.ID = id
		n.Timestamp = now
		if n.Type == "" {
			n.Type = "info"
		}
		stored = n

		list := make([]domain.Notification, 0, domain.NotificationsLimit)
		list = append(list, n)
		list = append(list, d.Notifications...)
		if len(list) > domain.NotificationsLimit {
			list = list[:domain.NotificationsLimit]
		}
		d.Notifications = list
	})
	return stored
}

// SetSystemStatus records the current system status.
func (s *DashboardService) SetSystemStatus(status, message string) domain.SystemStatus {
	cfg := s.mutate(func(d *domain.DashboardConfig) {
		d.SystemStatus = domain.SystemStatus{
			Status:    status,
			Message:   message,
			LastCheck: s.gateway.Now(),
		}
	})
	return cfg.SystemStatus
}

func (s *DashboardService) durableKey() string {
	return driving.DashboardKey
}

func (s *DashboardService) snapshotJSON() ([]byte, error) {
	return json.Marshal(s.Load())
}

func (s *DashboardService) validate(raw []byte) error {
	var d domain.DashboardConfig
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	return nil
}

func (s *DashboardService) restore(raw []byte) error {
	var d domain.DashboardConfig
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	d.Normalise()

	s.mu.Lock()
	s.ensureLoaded()
	s.state = d
	s.trackIDs()
	durable := s.state.Clone()
	err := s.gateway.persist(driving.DashboardKey, &durable)
	s.state.LastUpdated = durable.LastUpdated
	s.mu.Unlock()

	s.gateway.notify(driving.DashboardKey)
	return err
}

func (s *DashboardService) resetDefaults() {
	s.Reset()
}
