package domain

import (
	"math"
	"time"
)

// RecentDocumentsLimit is the number of records kept in the recent list.
const RecentDocumentsLimit = 10

// Counter names accepted by MetricsAggregate.Counter and AddCounter.
const (
	CounterProcessedDocuments = "processedDocuments"
	CounterPendingDocuments   = "pendingDocuments"
	CounterTotalDocuments     = "totalDocuments"
	CounterTotalChunks        = "totalChunks"
)

// Counters are the top-level running totals.
type Counters struct {
	ProcessedDocuments int     `json:"processedDocuments"`
	PendingDocuments   int     `json:"pendingDocuments"`
	TotalDocuments     int     `json:"totalDocuments"`
	TotalChunks        int     `json:"totalChunks"`
	ErrorRate          float64 `json:"errorRate"`
	OperationsCount    int     `json:"operationsCount"`
	ErrorsCount        int     `json:"errorsCount"`
}

// ProcessingStats tracks operation outcomes and timings.
type ProcessingStats struct {
	SuccessfulOperations  int   `json:"successfulOperations"`
	FailedOperations      int   `json:"failedOperations"`
	AverageProcessingTime int64 `json:"averageProcessingTime"`
	TotalProcessingTime   int64 `json:"totalProcessingTime"`
}

// Performance tracks usage figures.
type Performance struct {
	UploadsToday     int `json:"uploadsToday"`
	QueriesProcessed int `json:"queriesProcessed"`

	// SystemUptime is in seconds.
	SystemUptime int64 `json:"systemUptime"`

	// UploadsDate is the day (YYYY-MM-DD) UploadsToday refers to.
	UploadsDate string `json:"uploadsDate,omitempty"`
}

// Analytics groups the derived statistics.
type Analytics struct {
	DocumentTypes   map[string]int  `json:"documentTypes"`
	ProcessingStats ProcessingStats `json:"processingStats"`
	Performance     Performance     `json:"performance"`
}

// MetricsAggregate is the durable, process-wide metrics state.
type MetricsAggregate struct {
	Metrics         Counters         `json:"metrics"`
	DocumentHistory []DocumentRecord `json:"documentHistory"`
	RecentDocuments []DocumentRecord `json:"recentDocuments"`
	Analytics       Analytics        `json:"analytics"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}

// DefaultMetrics returns a zeroed aggregate.
func DefaultMetrics() MetricsAggregate {
	types := make(map[string]int, len(DocumentTypes))
	for _, t := range DocumentTypes {
		types[t] = 0
	}
	return MetricsAggregate{
		DocumentHistory: []DocumentRecord{},
		RecentDocuments: []DocumentRecord{},
		Analytics:       Analytics{DocumentTypes: types},
	}
}

// SetLastUpdated stamps the aggregate.
func (m *MetricsAggregate) SetLastUpdated(t time.Time) {
	m.LastUpdated = t
}

// Clone returns a deep copy.
func (m MetricsAggregate) Clone() MetricsAggregate {
	out := m
	out.DocumentHistory = cloneRecords(m.DocumentHistory)
	out.RecentDocuments = cloneRecords(m.RecentDocuments)
	out.Analytics.DocumentTypes = make(map[string]int, len(m.Analytics.DocumentTypes))
	for k, v := range m.Analytics.DocumentTypes {
		out.Analytics.DocumentTypes[k] = v
	}
	return out
}

// Normalise repairs an aggregate restored from durable storage: nil
// collections are replaced, missing type buckets are added and negative
// counters are clamped.
func (m *MetricsAggregate) Normalise() {
	if m.DocumentHistory == nil {
		m.DocumentHistory = []DocumentRecord{}
	}
	if m.RecentDocuments == nil {
		m.RecentDocuments = []DocumentRecord{}
	}
	if len(m.RecentDocuments) > RecentDocumentsLimit {
		m.RecentDocuments = m.RecentDocuments[:RecentDocumentsLimit]
	}
	if m.Analytics.DocumentTypes == nil {
		m.Analytics.DocumentTypes = make(map[string]int, len(DocumentTypes))
	}
	for _, t := range DocumentTypes {
		if _, ok := m.Analytics.DocumentTypes[t]; !ok {
			m.Analytics.DocumentTypes[t] = 0
		}
	}
	c := &m.Metrics
	for _, v := range []*int{&c.ProcessedDocuments, &c.PendingDocuments, &c.TotalDocuments,
		&c.TotalChunks, &c.OperationsCount, &c.ErrorsCount} {
		if *v < 0 {
			*v = 0
		}
	}
	if c.TotalDocuments < c.ProcessedDocuments {
		c.TotalDocuments = c.ProcessedDocuments
	}
	if c.ErrorsCount > c.OperationsCount {
		c.ErrorsCount = c.OperationsCount
	}
	c.ErrorRate = ErrorRate(c.ErrorsCount, c.OperationsCount)
}

// Counter returns the value of a named top-level counter.
func (m MetricsAggregate) Counter(name string) (int, bool) {
	switch name {
	case CounterProcessedDocuments:
		return m.Metrics.ProcessedDocuments, true
	case CounterPendingDocuments:
		return m.Metrics.PendingDocuments, true
	case CounterTotalDocuments:
		return m.Metrics.TotalDocuments, true
	case CounterTotalChunks:
		return m.Metrics.TotalChunks, true
	default:
		return 0, false
	}
}

// AddCounter adds delta to a named counter, clamping at zero.
// Raising processedDocuments above totalDocuments raises totalDocuments too.
// It returns false if the name is not a counter.
func (m *MetricsAggregate) AddCounter(name string, delta int) bool {
	var target *int
	switch name {
	case CounterProcessedDocuments:
		target = &m.Metrics.ProcessedDocuments
	case CounterPendingDocuments:
		target = &m.Metrics.PendingDocuments
	case CounterTotalDocuments:
		target = &m.Metrics.TotalDocuments
	case CounterTotalChunks:
		target = &m.Metrics.TotalChunks
	default:
		return false
	}
	*target += delta
	if *target < 0 {
		*target = 0
	}
	if m.Metrics.TotalDocuments < m.Metrics.ProcessedDocuments {
		m.Metrics.TotalDocuments = m.Metrics.ProcessedDocuments
	}
	return true
}

// ErrorRate returns errors/operations as a percentage, or 0 with no operations.
func ErrorRate(errorsCount, operationsCount int) float64 {
	if operationsCount <= 0 {
		return 0
	}
	return float64(errorsCount) / float64(operationsCount) * 100
}

// AnalyticsView is the display-ready form of the aggregate.
type AnalyticsView struct {
	Metrics         Counters         `json:"metrics"`
	DocumentTypes   map[string]int   `json:"documentTypes"`
	ProcessingStats ProcessingStats  `json:"processingStats"`
	Performance     Performance      `json:"performance"`
	RecentDocuments []DocumentRecord `json:"recentDocuments"`
	HistorySize     int              `json:"historySize"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}

// View builds the display form, rounding the error rate to two decimals.
func (m MetricsAggregate) View() AnalyticsView {
	c := m.Clone()
	c.Metrics.ErrorRate = math.Round(c.Metrics.ErrorRate*100) / 100
	return AnalyticsView{
		Metrics:         c.Metrics,
		DocumentTypes:   c.Analytics.DocumentTypes,
		ProcessingStats: c.Analytics.ProcessingStats,
		Performance:     c.Analytics.Performance,
		RecentDocuments: c.RecentDocuments,
		HistorySize:     len(c.DocumentHistory),
		LastUpdated:     c.LastUpdated,
	}
}

func cloneRecords(in []DocumentRecord) []DocumentRecord {
	out := make([]DocumentRecord, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
