package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"redirector/internal/domain/models"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// StorageDB - journal stored in PostgreSQL.
type StorageDB struct {
	DBConn *sql.DB
}

// NewStorageDB connects to dsn and applies the journal migrations.
func NewStorageDB(dsn string) (*StorageDB, error) {
	dbConn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if err := UpDBMigrations(dbConn); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	return &StorageDB{DBConn: dbConn}, nil
}

// UpDBMigrations applies the embedded migrations to db.
func UpDBMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("journal migrations: %w", err)
	}
	return nil
}

// Record inserts e.
func (s *StorageDB) Record(ctx context.Context, e models.JournalEntry) error {
	e = prepareEntry(e)
	_, err := s.DBConn.ExecContext(ctx,
		"INSERT INTO redirect_journal (id, at, op, count, outcome, message) VALUES ($1, $2, $3, $4, $5, $6)",
		e.ID, e.At, string(e.Op), e.Count, e.Outcome, e.Message)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// Recent returns at most limit entries, newest first.
func (s *StorageDB) Recent(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = DefaultRecent
	}

	rows, err := s.DBConn.QueryContext(ctx,
		"SELECT id, at, op, count, outcome, message FROM redirect_journal ORDER BY at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("selecting journal entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []models.JournalEntry
	for rows.Next() {
		var (
			e  models.JournalEntry
			op string
		)
		if err := rows.Scan(&e.ID, &e.At, &op, &e.Count, &e.Outcome, &e.Message); err != nil {
			return nil, err
		}
		e.Op = models.JournalOp(op)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Ping checks the database connection.
func (s *StorageDB) Ping() error {
	return s.DBConn.Ping()
}

// Close closes the database connection.
func (s *StorageDB) Close() error {
	return s.DBConn.Close()
}
