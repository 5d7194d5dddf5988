package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

var _ driven.KeyValueStore = (*kvStore)(nil)

// KVStore returns the key-value view of the database.
func (s *Store) KVStore() driven.KeyValueStore {
	return &kvStore{db: s.db, quota: s.quota}
}

type kvStore struct {
	db    *sql.DB
	quota int
}

func (s *kvStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key. With a quota the size check and the write share one
// transaction; keys and values both count.
func (s *kvStore) Set(key, value string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if s.quota > 0 {
		var others int
		if err := tx.QueryRow(
			`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv WHERE key <> ?`,
			key,
		).Scan(&others); err != nil {
			return fmt.Errorf("set %s: measuring usage: %w", key, err)
		}
		if others+len(key)+len(value) > s.quota {
			return fmt.Errorf("set %s: %w", key, domain.ErrQuotaExceeded)
		}
	}

	if _, err := tx.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return tx.Commit()
}

func (s *kvStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
