package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
)

// SQLiteStore persists bars to a SQLite database. It also serves as an
// offline collector.Fetcher.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

var _ collector.Fetcher = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the server can read while sync writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol  TEXT    NOT NULL,
			date    TEXT    NOT NULL,
			open    REAL    NOT NULL,
			high    REAL    NOT NULL,
			low     REAL    NOT NULL,
			close   REAL    NOT NULL,
			volume  INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS sync_runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT    NOT NULL,
			provider  TEXT,
			rows      INTEGER,
			synced_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_symbol ON sync_runs(symbol, synced_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBars upserts bars for symbol and records the sync run.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol, provider string, bars []model.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_bars
		(symbol, date, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Day().Format(model.DateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert %s %s: %w", symbol, b.Day().Format(model.DateLayout), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO sync_runs
		(symbol, provider, rows, synced_at) VALUES (?,?,?,?)`,
		symbol, provider, len(bars), s.now().Unix()); err != nil {
		return fmt.Errorf("record sync: %w", err)
	}
	return tx.Commit()
}

// LoadBars returns the stored bars for symbol dated on or after from, ascending.
func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, from time.Time) ([]model.PriceBar, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? AND date >= ? ORDER BY date`,
		symbol, model.CalendarDay(from).Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var (
			date string
			b    model.PriceBar
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		if b.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", date, err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LastSync returns the most recent sync run for symbol, or nil if none.
func (s *SQLiteStore) LastSync(ctx context.Context, symbol string) (*SyncRun, error) {
	run := SyncRun{Symbol: symbol}
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT provider, rows, synced_at FROM sync_runs
		WHERE symbol = ? ORDER BY synced_at DESC, id DESC LIMIT 1`, symbol).
		Scan(&run.Provider, &run.Rows, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query sync: %w", err)
	}
	run.SyncedAt = time.Unix(ts, 0)
	return &run, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// FetchDailyBars serves stored bars inside the lookback window.
func (s *SQLiteStore) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	from := time.Time{}
	if days > 0 {
		from = s.now().AddDate(0, 0, -days)
	}
	bars, err := s.LoadBars(ctx, symbol, from)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("sqlite %s: %w", symbol, collector.ErrNoData)
	}
	return bars, nil
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
