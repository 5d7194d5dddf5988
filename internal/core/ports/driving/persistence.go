package driving

import "github.com/custodia-labs/datacrafter/internal/core/domain"

// Durable keys owned by the persistence gateway.
const (
	MetricsKey   = "datacrafter_metrics"
	DashboardKey = "datacrafter_dashboard"
)

// Listener is notified after every durable write.
// Listeners are compared by identity, so implementations must be comparable.
type Listener interface {
	OnChange(key string)
}

// PersistenceGateway is the single owner of the durable state.
type PersistenceGateway interface {
	// Subscribe registers a listener. Subscribing twice has no effect.
	Subscribe(l Listener)

	// Unsubscribe removes a listener.
	Unsubscribe(l Listener)

	// ExportAll returns a snapshot of both stores' durable state.
	ExportAll() domain.Snapshot

	// ImportAll restores whichever sections the snapshot carries.
	ImportAll(snapshot domain.Snapshot) domain.OperationResult

	// ImportJSON decodes a backup file and imports it.
	ImportJSON(data []byte) domain.OperationResult

	// ClearAll removes both durable keys and resets both stores.
	ClearAll() domain.OperationResult
}
