package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func bar(day string, close float64, volume int64) model.PriceBar {
	d, _ := time.Parse(model.DateLayout, day)
	return model.PriceBar{Date: d, Open: close, High: close + 1, Low: close - 1, Close: close, Volume: volume}
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBars(ctx, "005930", "naver", []model.PriceBar{
		bar("2026-10-14", 100, 10),
		bar("2026-10-13", 99, 20),
	}))
	// Re-syncing a day overwrites it.
	require.NoError(t, s.SaveBars(ctx, "005930", "yahoo", []model.PriceBar{
		bar("2026-10-14", 101, 30),
		bar("2026-10-15", 102, 40),
	}))
	require.NoError(t, s.SaveBars(ctx, "000660", "naver", []model.PriceBar{bar("2026-10-14", 500, 1)}))

	bars, err := s.LoadBars(ctx, "005930", time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, "2026-10-13", bars[0].Day().Format(model.DateLayout))
	assert.Equal(t, 101.0, bars[1].Close)
	assert.Equal(t, int64(30), bars[1].Volume)
	assert.NoError(t, model.Series(bars).Validate())

	bars, err = s.LoadBars(ctx, "005930", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	run, err := s.LastSync(ctx, "005930")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "yahoo", run.Provider)
	assert.Equal(t, 2, run.Rows)
}

func TestSQLiteStore_LastSyncNone(t *testing.T) {
	run, err := openTestStore(t).LastSync(context.Background(), "005930")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestSQLiteStore_AsFetcher(t *testing.T) {
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := s.FetchDailyBars(ctx, "005930", 30)
	assert.ErrorIs(t, err, collector.ErrNoData)

	require.NoError(t, s.SaveBars(ctx, "005930", "naver", []model.PriceBar{
		bar("2026-08-01", 90, 1),
		bar("2026-10-15", 100, 1),
	}))
	bars, err := s.FetchDailyBars(ctx, "005930", 30)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, "sqlite", s.Name())
}

func TestSync(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := &collector.MockFetcher{Bars: []model.PriceBar{
		bar("2026-10-15", 100, 1),
		bar("2026-10-14", 99, 1),
		bar("2026-10-15", 101, 2),
	}}

	n, err := Sync(ctx, m, s, "005930", 120)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "duplicate days collapse to one bar")

	bars, err := s.LoadBars(ctx, "005930", time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 101.0, bars[1].Close)

	run, err := s.LastSync(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "mock", run.Provider)
}

func TestSync_RejectsInvalidBars(t *testing.T) {
	s := openTestStore(t)
	m := &collector.MockFetcher{Bars: []model.PriceBar{bar("2026-10-15", 0, 1)}}
	_, err := Sync(context.Background(), m, s, "005930", 120)
	assert.Error(t, err)

	m = &collector.MockFetcher{Err: errors.New("down")}
	_, err = Sync(context.Background(), m, s, "005930", 120)
	assert.Error(t, err)
}
