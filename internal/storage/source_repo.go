package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source_store.go -package=mocks clipchat-ai/internal/storage SourceStore

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceStore defines the interface for source catalog operations.
type SourceStore interface {
	// Upsert inserts or updates a source. Returns false when the stored hash
	// already matches (unchanged transcript, nothing written).
	Upsert(ctx context.Context, src *Source) (bool, error)
	// GetByID gets a source by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Source, error)
	// ListAll returns all sources ordered by ID.
	ListAll(ctx context.Context) ([]Source, error)
	// SetChunkCount records how many chunks a source contributed to the last build.
	SetChunkCount(ctx context.Context, id string, n int) error
}

// SourceRepo provides methods for source catalog operations.
// It implements the SourceStore interface.
type SourceRepo struct {
	db *sql.DB
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// Upsert inserts or updates a source record. When the stored transcript hash
// matches src.Hash the row is left untouched and false is returned, so
// repeated ingestion runs skip unchanged transcripts.
func (r *SourceRepo) Upsert(ctx context.Context, src *Source) (bool, error) {
	var existingHash string
	err := r.db.QueryRowContext(ctx,
		"SELECT hash FROM sources WHERE id = ?", src.ID,
	).Scan(&existingHash)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check existing source: %w", err)
	}
	if err == nil && existingHash == src.Hash {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sources (id, title, url, transcript, hash, chunk_count, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			transcript = excluded.transcript,
			hash = excluded.hash,
			updated_at = CURRENT_TIMESTAMP`,
		src.ID, src.Title, src.URL, src.Transcript, src.Hash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert source: %w", err)
	}
	return true, nil
}

// GetByID gets a source by its ID. Returns ErrNotFound if not found.
func (r *SourceRepo) GetByID(ctx context.Context, id string) (*Source, error) {
	var src Source
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, url, transcript, hash, chunk_count, updated_at FROM sources WHERE id = ?",
		id,
	).Scan(&src.ID, &src.Title, &src.URL, &src.Transcript, &src.Hash, &src.ChunkCount, &src.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}

	return &src, nil
}

// ListAll returns all sources ordered by ID, so index builds are deterministic
// for a given catalog state.
func (r *SourceRepo) ListAll(ctx context.Context) ([]Source, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, url, transcript, hash, chunk_count, updated_at FROM sources ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Title, &src.URL, &src.Transcript, &src.Hash, &src.ChunkCount, &src.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sources, nil
}

// SetChunkCount records how many chunks a source contributed to the last build.
func (r *SourceRepo) SetChunkCount(ctx context.Context, id string, n int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sources SET chunk_count = ? WHERE id = ?", n, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update chunk count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
