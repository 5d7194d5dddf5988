package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// Ensure MetricsService implements the interface.
var _ driving.MetricsService = (*MetricsService)(nil)

// defaultAnalysisName is the file name recorded for analyses without a source name.
const defaultAnalysisName = "Analysis"

// MetricsService holds the working copy of the metrics aggregate.
// Every mutation is applied in memory and then written through the gateway;
// the in-memory copy stays authoritative when the write fails.
type MetricsService struct {
	gateway *Gateway

	mu     sync.Mutex
	loaded bool
	state  domain.MetricsAggregate
	lastID int64
}

// NewMetricsService creates the metrics store and binds it to the gateway.
// Nothing is read or written until first use.
func NewMetricsService(gateway *Gateway) *MetricsService {
	s := &MetricsService{gateway: gateway}
	gateway.bind(s)
	return s
}

// ensureLoaded reads the durable copy once (caller must hold lock).
// Missing or corrupt data falls back to defaults without writing them.
func (s *MetricsService) ensureLoaded() {
	if s.loaded {
		return
	}
	var stored domain.MetricsAggregate
	if s.gateway.ReadNamed(driving.MetricsKey, &stored) {
		stored.Normalise()
		s.state = stored
	} else {
		s.state = domain.DefaultMetrics()
	}
	s.trackIDs()
	s.loaded = true
}

// trackIDs keeps lastID ahead of every stored record (caller must hold lock).
func (s *MetricsService) trackIDs() {
	for i := range s.state.DocumentHistory {
		if id := s.state.DocumentHistory[i].ID; id > s.lastID {
			s.lastID = id
		}
	}
}

// mutate applies fn and, if it reports a change, persists and notifies.
func (s *MetricsService) mutate(fn func(m *domain.MetricsAggregate) bool) domain.MetricsAggregate {
	s.mu.Lock()
	s.ensureLoaded()
	if !fn(&s.state) {
		out := s.state.Clone()
		s.mu.Unlock()
		return out
	}
	durable := s.state.Clone()
	_ = s.gateway.persist(driving.MetricsKey, &durable)
	s.state.LastUpdated = durable.LastUpdated
	out := s.state.Clone()
	s.mu.Unlock()

	s.gateway.notify(driving.MetricsKey)
	return out
}

// Load returns the current aggregate.
func (s *MetricsService) Load() domain.MetricsAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return s.state.Clone()
}

// Reset overwrites the aggregate with zeroed defaults.
func (s *MetricsService) Reset() domain.MetricsAggregate {
	return s.mutate(func(m *domain.MetricsAggregate) bool {
		*m = domain.DefaultMetrics()
		return true
	})
}

// IncrementCounter adds delta to a named top-level counter.
// Unknown names are logged and ignored.
func (s *MetricsService) IncrementCounter(name string, delta int) {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		if delta == 0 {
			return false
		}
		if !m.AddCounter(name, delta) {
			logger.Debug("ignoring unknown counter %q", name)
			return false
		}
		return true
	})
}

// RecordOutcome counts one external operation.
func (s *MetricsService) RecordOutcome(success bool) {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		m.Metrics.OperationsCount++
		if !success {
			m.Metrics.ErrorsCount++
			m.Analytics.ProcessingStats.FailedOperations++
		}
		m.Metrics.ErrorRate = domain.ErrorRate(m.Metrics.ErrorsCount, m.Metrics.OperationsCount)
		return true
	})
}

// IngestDocument adds a record to the history and the recent list.
// ID, timestamps and status are filled in when missing.
func (s *MetricsService) IngestDocument(record domain.DocumentRecord) domain.DocumentRecord {
	var stored domain.DocumentRecord
	s.mutate(func(m *domain.MetricsAggregate) bool {
		stored = s.addRecord(m, record)
		return true
	})
	return stored
}

// addRecord folds one record into m (caller must hold lock).
func (s *MetricsService) addRecord(m *domain.MetricsAggregate, record domain.DocumentRecord) domain.DocumentRecord {
	now := s.gateway.Now()
	record = record.Clone()
	record.ID = s.nextID(now)
	if record.Timestamp.IsZero() {
		record.Timestamp = now
	}
	if record.ProcessingDate.IsZero() {
		record.ProcessingDate = now
	}
	if !record.Status.IsValid() {
		record.Status = domain.DocumentProcessed
	}
	if record.Type == "" {
		record.Type = domain.DocumentTypeOther
	}

	m.DocumentHistory = append(m.DocumentHistory, record)

	recent := make([]domain.DocumentRecord, 0, domain.RecentDocumentsLimit)
	recent = append(recent, record)
	recent = append(recent, m.RecentDocuments...)
	if len(recent) > domain.RecentDocumentsLimit {
		recent = recent[:domain.RecentDocumentsLimit]
	}
	m.RecentDocuments = recent

	m.Metrics.TotalDocuments++
	m.Metrics.ProcessedDocuments++
	m.Analytics.DocumentTypes[domain.NormaliseDocumentType(record.Type)]++
	m.Analytics.ProcessingStats.SuccessfulOperations++

	return record.Clone()
}

// nextID returns a millisecond timestamp id, bumped to stay unique (caller must hold lock).
func (s *MetricsService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// IngestAnalysis folds an analysis into the aggregate as one document
// and adds the chunks it generated to the total.
func (s *MetricsService) IngestAnalysis(result domain.AnalysisResult) domain.AnalysisSummary {
	if result.IsEmpty() {
		return domain.NoOpSummary()
	}

	categories := result.Categories()
	fileTypes := result.FileTypes()
	totalChunks := result.TotalChunksGenerated()

	size := 0
	if data, err := json.Marshal(result.Elements); err == nil {
		size = len(data)
	}
	name := result.SourceName
	if name == "" {
		name = defaultAnalysisName
	}
	docType := domain.DocumentTypeText
	if len(fileTypes) > 0 {
		docType = fileTypes[0]
	}

	var stored domain.DocumentRecord
	s.mutate(func(m *domain.MetricsAggregate) bool {
		now := s.gateway.Now()
		stored = s.addRecord(m, domain.DocumentRecord{
			FileName:      name,
			BlobName:      fmt.Sprintf("analysis_%d", now.UnixMilli()),
			Type:          docType,
			SizeBytes:     int64(size),
			Status:        domain.DocumentProcessed,
			NumChunks:     totalChunks,
			Categories:    categories,
			ElementsCount: len(result.Elements),
		})
		m.AddCounter(domain.CounterTotalChunks, totalChunks)
		return true
	})

	return domain.AnalysisSummary{
		ElementsCount: len(result.Elements),
		TotalChunks:   totalChunks,
		Categories:    categories,
		FileTypes:     fileTypes,
		Document:      &stored,
	}
}

// RecordQuery counts a processed query.
func (s *MetricsService) RecordQuery() {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		m.Analytics.Performance.QueriesProcessed++
		return true
	})
}

// RecordUpload counts an upload for today, starting a new count each day.
func (s *MetricsService) RecordUpload() {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		today := s.gateway.Now().Format("2006-01-02")
		perf := &m.Analytics.Performance
		if perf.UploadsDate != today {
			perf.UploadsDate = today
			perf.UploadsToday = 0
		}
		perf.UploadsToday++
		return true
	})
}

// RecordProcessingTime adds the duration of one processed operation and
// recomputes the average over all counted operations.
func (s *MetricsService) RecordProcessingTime(d time.Duration) {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		if d < 0 {
			return false
		}
		stats := &m.Analytics.ProcessingStats
		stats.TotalProcessingTime += d.Milliseconds()
		count := int64(stats.SuccessfulOperations + stats.FailedOperations)
		if count > 0 {
			stats.AverageProcessingTime = stats.TotalProcessingTime / count
		} else {
			stats.AverageProcessingTime = stats.TotalProcessingTime
		}
		return true
	})
}

// RecordUptime stores the current system uptime in seconds.
func (s *MetricsService) RecordUptime(d time.Duration) {
	s.mutate(func(m *domain.MetricsAggregate) bool {
		secs := int64(d.Seconds())
		if secs < 0 || secs == m.Analytics.Performance.SystemUptime {
			return false
		}
		m.Analytics.Performance.SystemUptime = secs
		return true
	})
}

// Analytics returns the display form of the aggregate.
func (s *MetricsService) Analytics() domain.AnalyticsView {
	return s.Load().View()
}

// RecentDocuments returns the recent list, most recent first.
func (s *MetricsService) RecentDocuments() []domain.DocumentRecord {
	return s.Load().RecentDocuments
}

// History returns the full document history, oldest first.
func (s *MetricsService) History() []domain.DocumentRecord {
	return s.Load().DocumentHistory
}

func (s *MetricsService) durableKey() string {
	return driving.MetricsKey
}

func (s *MetricsService) snapshotJSON() ([]byte, error) {
	return json.Marshal(s.Load())
}

func (s *MetricsService) validate(raw []byte) error {
	var m domain.MetricsAggregate
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	return nil
}

func (s *MetricsService) restore(raw []byte) error {
	var m domain.MetricsAggregate
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	m.Normalise()

	var persistErr error
	s.mu.Lock()
	s.ensureLoaded()
	s.state = m
	s.trackIDs()
	durable := s.state.Clone()
	persistErr = s.gateway.persist(driving.MetricsKey, &durable)
	s.state.LastUpdated = durable.LastUpdated
	s.mu.Unlock()

	s.gateway.notify(driving.MetricsKey)
	return persistErr
}

func (s *MetricsService) resetDefaults() {
	s.Reset()
}
