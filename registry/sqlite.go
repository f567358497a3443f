package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmuldo/scaler/palette"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores style records in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the registry database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if e := os.MkdirAll(filepath.Dir(path), 0700); e != nil {
			return nil, e
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (s *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS styles (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		r REAL NOT NULL,
		g REAL NOT NULL,
		b REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_styles_name ON styles(name);
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}

func (s *SQLiteRepository) FindAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, r, g, b FROM styles ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Color.R, &r.Color.G, &r.Color.B); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteRepository) FindByName(ctx context.Context, name string) (Record, bool, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, "SELECT id, name, r, g, b FROM styles WHERE name = ?", name).
		Scan(&r.ID, &r.Name, &r.Color.R, &r.Color.G, &r.Color.B)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

func (s *SQLiteRepository) Create(ctx context.Context, name string, c palette.RGB) (Record, error) {
	r := Record{ID: uuid.NewString(), Name: name, Color: c}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO styles (id, name, r, g, b, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Name, c.R, c.G, c.B, now, now,
	)
	if err != nil {
		return Record{}, fmt.Errorf("create style %q: %w", name, err)
	}
	return r, nil
}

func (s *SQLiteRepository) Update(ctx context.Context, r Record) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE styles SET name = ?, r = ?, g = ?, b = ?, updated_at = ? WHERE id = ?",
		r.Name, r.Color.R, r.Color.G, r.Color.B, time.Now().UTC(), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update style %q: %w", r.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("style %s not found", r.ID)
	}
	return nil
}
