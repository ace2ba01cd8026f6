package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ChartDesk/internal/logger"
	"ChartDesk/internal/model"
)

// SQLiteStore keeps raw daily bars in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the dashboard read while the warm-up job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite bar store opened", logger.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT    NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT    NOT NULL,
			source     TEXT    NOT NULL,
			bars       INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_symbol ON fetch_log(symbol, fetched_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBars upserts bars for symbol and logs the fetch.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol, source string, bars []model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(symbol, ts, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Time.Unix(),
			nullable(b.Open), nullable(b.High), nullable(b.Low), nullable(b.Close), nullable(b.Volume),
		); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Time.Format("2006-01-02"), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO fetch_log
		(symbol, source, bars, fetched_at) VALUES (?,?,?,?)`,
		symbol, source, len(bars), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("log fetch: %w", err)
	}
	return tx.Commit()
}

// LoadBars returns the stored bars of symbol at or after since, ascending.
// A zero since loads everything.
func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, since time.Time) ([]model.Bar, error) {
	var from int64 = math.MinInt64
	if !since.IsZero() {
		from = since.Unix()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT ts, open, high, low, close, volume
		FROM daily_bars WHERE symbol = ? AND ts >= ? ORDER BY ts`, symbol, from)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var ts int64
		var o, h, l, c, v sql.NullFloat64
		if err := rows.Scan(&ts, &o, &h, &l, &c, &v); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, model.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   orNaN(o),
			High:   orNaN(h),
			Low:    orNaN(l),
			Close:  orNaN(c),
			Volume: orNaN(v),
		})
	}
	return bars, rows.Err()
}

// LastFetch returns the most recent fetch of symbol, nil when never fetched.
func (s *SQLiteStore) LastFetch(ctx context.Context, symbol string) (*FetchRecord, error) {
	var rec FetchRecord
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT symbol, source, bars, fetched_at
		FROM fetch_log WHERE symbol = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`, symbol,
	).Scan(&rec.Symbol, &rec.Source, &rec.Bars, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fetch log: %w", err)
	}
	rec.FetchedAt = time.Unix(ts, 0)
	return &rec, nil
}

func (s *SQLiteStore) Close() error {
	logger.Info("closing sqlite bar store")
	return s.db.Close()
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
