// Package storage provides SQLite-backed persistence for string records.
// It handles JSON serialization of derived properties and maps database
// failures onto the shared error taxonomy.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/analysis"
	"github.com/teranos/corpus/lex/types"
)

// Query constants
const (
	stringInsertQuery = `
		INSERT INTO strings (id, value, properties, created_at)
		VALUES (?, ?, ?, ?)`

	stringSelectByIDQuery = `
		SELECT id, value, properties, created_at FROM strings WHERE id = ?`

	// rowid order is insertion order, which callers rely on for the
	// stable-filter guarantee.
	stringListQuery = `
		SELECT id, value, properties, created_at FROM strings ORDER BY rowid ASC`

	stringDeleteQuery = `
		DELETE FROM strings WHERE id = ?`

	stringExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM strings WHERE id = ?)`

	stringCountQuery = `
		SELECT COUNT(*) FROM strings`
)

// SQLStore persists string records in SQLite.
// Safe for concurrent use; consistency for concurrent creates with the same
// content rides on the primary-key constraint over the content hash.
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a new SQL-based record store
func NewSQLStore(db *sql.DB, logger *zap.SugaredLogger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLStore{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new record. Returns an error wrapping errors.ErrConflict
// when a record with the same ID already exists; the stored record is left
// untouched in that case.
func (s *SQLStore) Create(ctx context.Context, rec types.StringRecord) error {
	propsJSON, err := json.Marshal(rec.Properties)
	if err != nil {
		return errors.Wrap(err, "failed to marshal properties")
	}

	_, err = s.db.ExecContext(ctx, stringInsertQuery,
		rec.ID,
		rec.Value,
		string(propsJSON),
		rec.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return errors.NewConflictError("string already exists")
		}
		return errors.Wrap(err, "failed to insert string")
	}

	s.logger.Debugw("String stored",
		"id", rec.ID,
		"length", rec.Properties.Length,
		"word_count", rec.Properties.WordCount,
	)
	return nil
}

// GetByID retrieves a record by its content-hash ID.
// Returns an error wrapping errors.ErrNotFound when absent.
func (s *SQLStore) GetByID(ctx context.Context, id string) (types.StringRecord, error) {
	rec, err := scanStringRecord(s.db.QueryRowContext(ctx, stringSelectByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StringRecord{}, errors.NewNotFoundError("string not found")
		}
		return types.StringRecord{}, errors.Wrap(err, "failed to query string")
	}
	return rec, nil
}

// GetByValue retrieves a record by its exact value. The value is hashed to
// its content address and looked up by ID, so the verbatim value itself
// never needs an index.
func (s *SQLStore) GetByValue(ctx context.Context, value string) (types.StringRecord, error) {
	return s.GetByID(ctx, analysis.HashValue(value))
}

// List returns every record in creation order.
func (s *SQLStore) List(ctx context.Context) ([]types.StringRecord, error) {
	rows, err := s.db.QueryContext(ctx, stringListQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list strings")
	}
	defer rows.Close()

	records := make([]types.StringRecord, 0)
	for rows.Next() {
		rec, err := scanStringRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan string row")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate strings")
	}
	return records, nil
}

// Delete removes a record by ID.
// Returns an error wrapping errors.ErrNotFound when no record matched.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, stringDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete string")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read rows affected")
	}
	if affected == 0 {
		return errors.NewNotFoundError("string not found")
	}

	s.logger.Debugw("String deleted", "id", id)
	return nil
}

// Exists reports whether a record with the given ID is stored.
func (s *SQLStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, stringExistsQuery, id).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check string existence")
	}
	return exists, nil
}

// Count returns the number of stored records.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, stringCountQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count strings")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanStringRecord decodes one row into a record, unmarshaling the JSON
// properties column.
func scanStringRecord(row rowScanner) (types.StringRecord, error) {
	var rec types.StringRecord
	var propsJSON string

	if err := row.Scan(&rec.ID, &rec.Value, &propsJSON, &rec.CreatedAt); err != nil {
		return types.StringRecord{}, err
	}
	if err := json.Unmarshal([]byte(propsJSON), &rec.Properties); err != nil {
		return types.StringRecord{}, errors.Wrap(err, "failed to unmarshal properties")
	}
	return rec, nil
}
