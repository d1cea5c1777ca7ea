package run

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id             VARCHAR(36)  NOT NULL PRIMARY KEY,
	state          VARCHAR(16)  NOT NULL,
	started_at     BIGINT       NOT NULL,
	finished_at    BIGINT       NOT NULL DEFAULT 0,
	sellers_total  INT          NOT NULL DEFAULT 0,
	sellers_done   INT          NOT NULL DEFAULT 0,
	products_seen  INT          NOT NULL DEFAULT 0,
	products_saved INT          NOT NULL DEFAULT 0,
	errors         JSON         NULL,
	INDEX idx_started_at (started_at)
)`

// MySQLStore persists scrape runs in a single table. Seller errors are
// stored as a JSON column since they are only ever read back whole.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens the database, verifies connectivity and ensures
// the schema exists.
func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create scrape_runs table")
	}

	return &MySQLStore{db: db}, nil
}

// Create inserts a new run record.
func (s *MySQLStore) Create(ctx context.Context, r *ScrapeRun) error {
	errsJSON, err := marshalErrors(r.Errors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scrape_runs
			(id, state, started_at, finished_at, sellers_total, sellers_done, products_seen, products_saved, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.State, r.StartedAt, r.FinishedAt,
		r.SellersTotal, r.SellersDone, r.ProductsSeen, r.ProductsSaved, errsJSON)
	return errors.Wrapf(err, "insert run %s", r.ID)
}

// Update overwrites the run's mutable fields.
func (s *MySQLStore) Update(ctx context.Context, r *ScrapeRun) error {
	errsJSON, err := marshalErrors(r.Errors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE scrape_runs
		SET state = ?, finished_at = ?, sellers_done = ?, products_seen = ?, products_saved = ?, errors = ?
		WHERE id = ?`,
		r.State, r.FinishedAt, r.SellersDone, r.ProductsSeen, r.ProductsSaved, errsJSON, r.ID)
	return errors.Wrapf(err, "update run %s", r.ID)
}

// Get loads one run by id, nil when it does not exist.
func (s *MySQLStore) Get(ctx context.Context, id string) (*ScrapeRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, started_at, finished_at, sellers_total, sellers_done, products_seen, products_saved, errors
		FROM scrape_runs WHERE id = ?`, id)
	return scanRun(row)
}

// Latest loads the most recently started run, nil when none exist.
func (s *MySQLStore) Latest(ctx context.Context) (*ScrapeRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, started_at, finished_at, sellers_total, sellers_done, products_seen, products_saved, errors
		FROM scrape_runs ORDER BY started_at DESC LIMIT 1`)
	return scanRun(row)
}

// Close releases the database handle.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func scanRun(row *sql.Row) (*ScrapeRun, error) {
	var r ScrapeRun
	var errsJSON sql.NullString
	err := row.Scan(&r.ID, &r.State, &r.StartedAt, &r.FinishedAt,
		&r.SellersTotal, &r.SellersDone, &r.ProductsSeen, &r.ProductsSaved, &errsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan run")
	}
	if errsJSON.Valid && errsJSON.String != "" {
		if err := json.Unmarshal([]byte(errsJSON.String), &r.Errors); err != nil {
			return nil, errors.Wrapf(err, "decode errors for run %s", r.ID)
		}
	}
	return &r, nil
}

func marshalErrors(sellerErrors []SellerError) (interface{}, error) {
	if len(sellerErrors) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(sellerErrors)
	if err != nil {
		return nil, errors.Wrap(err, "encode seller errors")
	}
	return string(raw), nil
}
