package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pressly/goose/v3"

	"rbac-demo/internal/domain"
)

// SQLite DSN parameters for production hardening.
const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultSynchronous = "NORMAL"
	defaultJournalMode = "WAL"
)

// SQLiteStore persists the snapshot in a SQLite file, one table per
// collection with entity records stored as JSON in insertion order. Save
// replaces all four collections within one transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite file at path and runs
// pending schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// openSQLite opens a single-writer *sql.DB pool with hardened DSN
// parameters (WAL journal, busy_timeout, synchronous=NORMAL,
// foreign_keys=on, immediate transactions).
func openSQLite(path string) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_journal_mode", defaultJournalMode)
	params.Set("_busy_timeout", defaultBusyTimeout)
	params.Set("_synchronous", defaultSynchronous)
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// Verify the connection is usable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// runMigrations executes all pending goose migrations.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// collection tables, in the order they are written.
var collectionTables = []string{"rbac_users", "rbac_roles", "rbac_privileges", "rbac_groups"}

// Load restores the most recently saved snapshot. A database that has
// never been saved to returns (nil, nil): an empty schema is "no
// snapshot", not an empty access model.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshot_meta WHERE id = 1`).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot meta: %w", err)
	}

	snap := &domain.Snapshot{}
	if err := loadCollection(ctx, s.db, "rbac_users", &snap.Users); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, s.db, "rbac_roles", &snap.Roles); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, s.db, "rbac_privileges", &snap.Privileges); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, s.db, "rbac_groups", &snap.Groups); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadCollection reads one collection table in insertion order into out,
// which must be a pointer to a slice of the entity type.
func loadCollection[T any](ctx context.Context, db *sql.DB, table string, out *[]T) error {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT record FROM %s ORDER BY position`, table))
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var entity T
		if err := json.Unmarshal(record, &entity); err != nil {
			return fmt.Errorf("parse %s record: %w", table, err)
		}
		*out = append(*out, entity)
	}
	return rows.Err()
}

// Save replaces the stored snapshot with snap in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range collectionTables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := saveCollection(ctx, tx, "rbac_users", snap.Users, func(u domain.User) string { return u.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "rbac_roles", snap.Roles, func(r domain.Role) string { return r.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "rbac_privileges", snap.Privileges, func(p domain.Privilege) string { return p.ID }); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "rbac_groups", snap.Groups, func(g domain.Group) string { return g.ID }); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET saved_at = excluded.saved_at`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write snapshot meta: %w", err)
	}
	return tx.Commit()
}

// saveCollection writes one collection's entities as JSON records with
// their insertion position.
func saveCollection[T any](ctx context.Context, tx *sql.Tx, table string, entities []T, id func(T) string) error {
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (position, id, record) VALUES (?, ?, ?)`, table))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i, entity := range entities {
		record, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", table, err)
		}
		if _, err := stmt.ExecContext(ctx, i, id(entity), record); err != nil {
			return fmt.Errorf("insert %s record: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
