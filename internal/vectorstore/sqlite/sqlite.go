package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"askpdf/internal/domain"
	"askpdf/internal/vectorstore/score"
)

// Storage is an embedded on-disk vector store. Embeddings are stored as
// little-endian float32 BLOBs and similarity is computed in Go, which is
// fast enough for the few thousand chunks a handful of PDFs produce.
type Storage struct {
	db *sql.DB
}

var _ domain.VectorStore = (*Storage)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	dimension  INTEGER NOT NULL,
	distance   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS points (
	id         TEXT PRIMARY KEY,
	collection TEXT NOT NULL REFERENCES collections(name),
	source     TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_points_collection ON points(collection);
`

// Open opens (creating if needed) the database at path. ":memory:" gives a
// throwaway store.
func Open(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: a :memory: database is per-connection, and a single
	// local user never needs more
	db.SetMaxOpenConns(1)
	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// EnsureCollection creates the collection if it does not exist. An existing
// collection is left untouched, whatever its schema.
func (s *Storage) EnsureCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if spec.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimension, distance)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, spec.Name, spec.Dimension, string(spec.Distance))
	if err != nil {
		return fmt.Errorf("ensure collection %s: %w", spec.Name, err)
	}
	return nil
}

// Spec returns the schema stored for a collection.
func (s *Storage) Spec(ctx context.Context, name string) (domain.CollectionSpec, error) {
	spec := domain.CollectionSpec{Name: name}
	var distance string
	err := s.db.QueryRowContext(ctx, `SELECT dimension, distance FROM collections WHERE name = ?`, name).
		Scan(&spec.Dimension, &distance)
	if errors.Is(err, sql.ErrNoRows) {
		return spec, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	if err != nil {
		return spec, err
	}
	spec.Distance = domain.Distance(distance)
	return spec, nil
}

// Collections lists all collection names.
func (s *Storage) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Append stores chunks with their vectors in one transaction.
func (s *Storage) Append(ctx context.Context, name string, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	spec, err := s.Spec(ctx, name)
	if err != nil {
		return err
	}
	for _, v := range vectors {
		if len(v) != spec.Dimension {
			return fmt.Errorf("vector dimension mismatch: got %d, collection %s has %d", len(v), name, spec.Dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (id, collection, source, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ch := range chunks {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), name, ch.Source, ch.Index, ch.Text, encodeFloat32s(vectors[i])); err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
	}
	return tx.Commit()
}

// Search finds the top-k most similar chunks using the collection's metric.
func (s *Storage) Search(ctx context.Context, name string, vector []float64, topK int) ([]domain.SearchResult, error) {
	spec, err := s.Spec(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, position, content, embedding
		FROM points
		WHERE collection = ?
		ORDER BY rowid
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.SearchResult
	for rows.Next() {
		var ch domain.Chunk
		var blob []byte
		if err := rows.Scan(&ch.ID, &ch.Source, &ch.Index, &ch.Text, &blob); err != nil {
			return nil, err
		}
		stored := decodeFloat32s(blob)
		if len(stored) != len(vector) {
			continue // dimension mismatch, skip
		}
		candidates = append(candidates, domain.SearchResult{
			Chunk: ch,
			Score: score.Similarity(spec.Distance, vector, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return score.TopK(candidates, topK), nil
}

// Count returns the number of points in a collection.
func (s *Storage) Count(ctx context.Context, name string) (int, error) {
	if _, err := s.Spec(ctx, name); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM points WHERE collection = ?`, name).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *Storage) Close() error { return s.db.Close() }

// encodeFloat32s converts a vector to little-endian float32 bytes.
func encodeFloat32s(v []float64) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return buf
}

// decodeFloat32s converts little-endian float32 bytes back to a vector.
func decodeFloat32s(b []byte) []float64 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float64, len(b)/4)
	for i := range v {
		v[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return v
}
