package driven

// KeyValueStore is durable string storage addressed by key.
// Implementations may be capacity bounded; a write that exceeds the
// capacity returns an error wrapping domain.ErrQuotaExceeded.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// The boolean is false if the key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}
