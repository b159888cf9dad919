// Package archive keeps a local sqlite snapshot of the normalized
// feeds so curator history is queryable offline. Each sync replaces a
// surface wholesale; the sheet is the source of truth, the archive is
// a mirror.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/niprobin/curated-digging/pkg/entity"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS entities (
  id             INTEGER PRIMARY KEY,
  surface        TEXT NOT NULL,
  entity_id      TEXT NOT NULL,
  curator        TEXT NOT NULL,
  display_name   TEXT NOT NULL,
  secondary_name TEXT,
  raw_date       TEXT,
  instant        INTEGER NOT NULL,
  dated          INTEGER NOT NULL CHECK (dated IN (0,1)),
  natural_key    TEXT,
  synced_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(surface, entity_id)
);
CREATE INDEX IF NOT EXISTS idx_entities_surface ON entities(surface);
CREATE INDEX IF NOT EXISTS idx_entities_curator ON entities(surface, curator);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ReplaceSurface swaps the archived rows for one surface ("tracks" or
// "albums") with the given set, atomically.
func (d *DB) ReplaceSurface(ctx context.Context, surface string, entities []entity.Entity) (err error) {
	if surface == "" {
		return errors.New("empty surface name")
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entities WHERE surface = ?`, surface); err != nil {
		return err
	}

	for _, e := range entities {
		_, err = tx.ExecContext(ctx, `INSERT INTO entities(surface, entity_id, curator, display_name, secondary_name, raw_date, instant, dated, natural_key, synced_at) VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
			surface, e.ID, e.Curator, e.DisplayName, nullIfEmpty(e.SecondaryName), nullIfEmpty(e.RawDate), e.Instant, boolToInt(e.Dated), nullIfEmpty(e.NaturalKey))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListSurface returns the archived rows for a surface, newest first
// with undated rows last, matching the dashboard order.
func (d *DB) ListSurface(ctx context.Context, surface string) ([]entity.Entity, error) {
	q := `SELECT entity_id, curator, display_name, secondary_name, raw_date, instant, dated, natural_key FROM entities WHERE surface = ? ORDER BY dated DESC, instant DESC, display_name COLLATE NOCASE`
	rows, err := d.sql.QueryContext(ctx, q, surface)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Entity
	for rows.Next() {
		var (
			e                    entity.Entity
			secondary, raw, nkey sql.NullString
			datedInt             int
		)
		if err := rows.Scan(&e.ID, &e.Curator, &e.DisplayName, &secondary, &raw, &e.Instant, &datedInt, &nkey); err != nil {
			return nil, err
		}
		e.SecondaryName = secondary.String
		e.RawDate = raw.String
		e.NaturalKey = nkey.String
		e.Dated = datedInt == 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type CuratorStats struct {
	Surface     string
	Curator     string
	EntityCount int
	LastSynced  time.Time
}

// Stats summarizes the archive per surface and curator.
func (d *DB) Stats(ctx context.Context) ([]CuratorStats, error) {
	q := `
		SELECT
			surface,
			curator,
			COUNT(*),
			MAX(synced_at)
		FROM
			entities
		GROUP BY
			surface, curator
		ORDER BY
			surface, curator;
	`
	rows, err := d.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CuratorStats
	for rows.Next() {
		var s CuratorStats
		var syncedStr string
		if err := rows.Scan(&s.Surface, &s.Curator, &s.EntityCount, &syncedStr); err != nil {
			return nil, err
		}
		if t, perr := time.Parse("2006-01-02 15:04:05", syncedStr); perr == nil {
			s.LastSynced = t
		} else if t2, perr2 := time.Parse(time.RFC3339, syncedStr); perr2 == nil {
			s.LastSynced = t2
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
