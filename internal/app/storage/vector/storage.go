package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
)

// SQLStorage implements VectorStorage on PostgreSQL (pgvector) or SQLite
type SQLStorage struct {
	db        *sql.DB
	dialect   Dialect
	table     string
	runsTable string
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, driver, dsn, table string) (*SQLStorage, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	storage, err := NewSQLStorage(db, dialect, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

// NewSQLStorage creates a storage on an open connection
func NewSQLStorage(db *sql.DB, dialect Dialect, table string) (*SQLStorage, error) {
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	return &SQLStorage{
		db:        db,
		dialect:   dialect,
		table:     table,
		runsTable: table + "_runs",
	}, nil
}

// EnsureSchema creates the embedding and run tables when missing
func (s *SQLStorage) EnsureSchema(ctx context.Context) error {
	var statements []string
	if s.dialect.Extension != "" {
		statements = append(statements, s.dialect.Extension)
	}

	statements = append(statements,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			verse_id TEXT NOT NULL,
			model TEXT NOT NULL,
			run_id TEXT NOT NULL,
			mandala INTEGER NOT NULL,
			hymn INTEGER NOT NULL,
			verse INTEGER NOT NULL,
			title TEXT NOT NULL,
			searchable_text TEXT NOT NULL,
			dimension INTEGER NOT NULL,
			embedding %s NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (verse_id, model)
		)`, s.table, s.dialect.VectorType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			label TEXT NOT NULL,
			final %s NOT NULL,
			attempted INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, s.runsTable, s.dialect.BoolType),
	)

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// UpsertEmbeddings stores the successful results in one transaction
func (s *SQLStorage) UpsertEmbeddings(ctx context.Context, runID, modelName string, results []model.EmbeddingResult) error {
	if len(results) == 0 {
		return nil
	}

	d := s.dialect
	query := fmt.Sprintf(`INSERT INTO %s
		(verse_id, model, run_id, mandala, hymn, verse, title, searchable_text, dimension, embedding, updated_at)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		ON CONFLICT (verse_id, model) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			searchable_text = EXCLUDED.searchable_text,
			dimension = EXCLUDED.dimension,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at`,
		s.table,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4), d.Placeholder(5),
		d.Placeholder(6), d.Placeholder(7), d.Placeholder(8), d.Placeholder(9), d.vectorExpr(10), d.Placeholder(11))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		rec := r.Record
		_, err := stmt.ExecContext(ctx,
			rec.ID, modelName, runID,
			rec.Display.Mandala, rec.Display.Hymn, rec.Display.Verse,
			rec.Display.Title, rec.SearchableText,
			len(r.Vector), vectorToString(r.Vector), now)
		if err != nil {
			return fmt.Errorf("failed to store embedding %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit embeddings: %w", err)
	}
	return nil
}

// GetEmbedding retrieves a single embedding from the database
func (s *SQLStorage) GetEmbedding(ctx context.Context, verseID, modelName string) ([]float32, error) {
	query := fmt.Sprintf(`SELECT embedding FROM %s WHERE verse_id = %s AND model = %s`,
		s.table, s.dialect.Placeholder(1), s.dialect.Placeholder(2))

	var vectorStr string
	err := s.db.QueryRowContext(ctx, query, verseID, modelName).Scan(&vectorStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("embedding", verseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}

	return stringToVector(vectorStr)
}

// LoadEmbeddings returns every stored vector of modelName keyed by verse ID
func (s *SQLStorage) LoadEmbeddings(ctx context.Context, modelName string) (map[string][]float32, error) {
	query := fmt.Sprintf(`SELECT verse_id, embedding FROM %s WHERE model = %s ORDER BY verse_id`,
		s.table, s.dialect.Placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float32)
	for rows.Next() {
		var id, vectorStr string
		if err := rows.Scan(&id, &vectorStr); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		vec, err := stringToVector(vectorStr)
		if err != nil {
			return nil, fmt.Errorf("embedding %s: %w", id, err)
		}
		out[id] = vec
	}
	return out, rows.Err()
}

// RecordRun upserts the latest checkpoint of a run
func (s *SQLStorage) RecordRun(ctx context.Context, run RunRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(run_id, model, label, final, attempted, succeeded, failed, skipped, updated_at)
		VALUES (%s)
		ON CONFLICT (run_id) DO UPDATE SET
			label = EXCLUDED.label,
			final = EXCLUDED.final,
			attempted = EXCLUDED.attempted,
			succeeded = EXCLUDED.succeeded,
			failed = EXCLUDED.failed,
			skipped = EXCLUDED.skipped,
			updated_at = EXCLUDED.updated_at`,
		s.runsTable, s.dialect.Placeholders(9))

	_, err := s.db.ExecContext(ctx, query,
		run.RunID, run.Model, run.Label, run.Final,
		run.Attempted, run.Succeeded, run.Failed, run.Skipped, run.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	return s.db.Close()
}
