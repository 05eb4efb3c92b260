package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
)

func testConfig(t *testing.T, provider string) *config.Config {
	c := &config.Config{}
	c.DataSource.Provider = provider
	c.DataSource.LookbackDays = 120
	c.DataSource.Timeout = time.Second
	c.DataSource.SQLitePath = filepath.Join(t.TempDir(), "bars.db")
	return c
}

func TestBuildDeps_MockOnly(t *testing.T) {
	d, err := buildDeps(testConfig(t, "mock"))
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, "mock", d.fetcher.Name())
	assert.IsType(t, collector.StaticNames{}, d.names)

	resp := d.assembler(testConfig(t, "mock")).Generate(context.Background(), "005930", "")
	assert.True(t, resp.OK)
}

func TestBuildDeps_Chain(t *testing.T) {
	d, err := buildDeps(testConfig(t, "sqlite,mock"))
	require.NoError(t, err)
	defer d.Close()

	assert.IsType(t, &collector.FallbackFetcher{}, d.fetcher)
	assert.IsType(t, collector.ChainResolver{}, d.names)
	assert.Len(t, d.closers, 1)
}

func TestBuildDeps_UnknownProvider(t *testing.T) {
	_, err := buildDeps(testConfig(t, "mock,bloomberg"))
	assert.ErrorContains(t, err, "bloomberg")
}

func TestOnlineProviders(t *testing.T) {
	assert.Equal(t, "naver,yahoo", onlineProviders(testConfig(t, "sqlite,naver,yahoo")))
	assert.Equal(t, "naver,yahoo", onlineProviders(testConfig(t, "sqlite")))
	assert.Equal(t, "mock", onlineProviders(testConfig(t, "mock")))
}
