package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zonecore/internal/mapindex"
)

// MapIndexRepository stores the map directory in the map_index table.
type MapIndexRepository struct {
	db *pgxpool.Pool
}

// NewMapIndexRepository creates a new MapIndexRepository.
func NewMapIndexRepository(db *pgxpool.Pool) *MapIndexRepository {
	return &MapIndexRepository{db: db}
}

// LoadAll returns every directory entry ordered by index id.
func (r *MapIndexRepository) LoadAll(ctx context.Context) ([]mapindex.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT map_index, name FROM map_index ORDER BY map_index`)
	if err != nil {
		return nil, fmt.Errorf("querying map index: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (mapindex.Entry, error) {
		var e mapindex.Entry
		err := row.Scan(&e.Index, &e.Name)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning map index: %w", err)
	}
	return entries, nil
}

// LoadIndex reads the table and builds a validated directory from it.
func (r *MapIndexRepository) LoadIndex(ctx context.Context) (*mapindex.Index, error) {
	entries, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := mapindex.New(entries)
	if err != nil {
		return nil, fmt.Errorf("building map index from database: %w", err)
	}
	return idx, nil
}

// Replace swaps the whole table for entries in one transaction.
func (r *MapIndexRepository) Replace(ctx context.Context, entries []mapindex.Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM map_index`); err != nil {
		return fmt.Errorf("clearing map index: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"map_index"},
		[]string{"map_index", "name"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			return []any{int32(entries[i].Index), entries[i].Name}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copying %d map index entries: %w", len(entries), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing map index: %w", err)
	}
	return nil
}
