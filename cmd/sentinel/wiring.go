package main

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/report"
	"StockSentinel/internal/store"
)

// deps holds the collaborators built from config, with their cleanup.
type deps struct {
	fetcher collector.Fetcher
	names   collector.NameResolver
	closers []func() error
}

func (d *deps) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close dependency")
		}
	}
}

func (d *deps) assembler(c *config.Config) *report.Assembler {
	return report.New(d.fetcher, d.names, c.DataSource.LookbackDays)
}

// buildDeps wires the provider chain and name resolution from c.
func buildDeps(c *config.Config) (*deps, error) {
	d := &deps{}
	var fetchers []collector.Fetcher
	onlyMock := true
	for _, p := range c.Providers() {
		switch p {
		case "naver":
			fetchers = append(fetchers, collector.NewGuard(collector.NewNaverFetcher("", c.Proxy),
				c.DataSource.Timeout, c.DataSource.RateLimitRPS))
		case "yahoo":
			fetchers = append(fetchers, collector.NewGuard(collector.NewYahooFetcher(),
				c.DataSource.Timeout, c.DataSource.RateLimitRPS))
		case "sqlite":
			s, err := store.NewSQLiteStore(c.DataSource.SQLitePath)
			if err != nil {
				d.Close()
				return nil, fmt.Errorf("open sqlite provider: %w", err)
			}
			d.closers = append(d.closers, s.Close)
			fetchers = append(fetchers, s)
		case "mock":
			fetchers = append(fetchers, &collector.MockFetcher{Price: 70000})
		default:
			d.Close()
			return nil, fmt.Errorf("unknown provider %q", p)
		}
		if p != "mock" {
			onlyMock = false
		}
	}
	if len(fetchers) == 1 {
		d.fetcher = fetchers[0]
	} else {
		d.fetcher = collector.NewFallbackFetcher(fetchers...)
	}
	log.Info().Str("provider", d.fetcher.Name()).Msg("data source ready")

	if onlyMock {
		d.names = collector.StaticNames{"005930": "Samsung Electronics"}
		return d, nil
	}
	var names collector.NameResolver = collector.ChainResolver{
		collector.NewNaverNameResolver("", c.Proxy),
		&collector.YahooNameResolver{},
	}
	if c.NameCache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: c.NameCache.RedisAddr})
		d.closers = append(d.closers, rdb.Close)
		names = collector.NewCachedNameResolver(rdb, names, c.NameCache.TTL)
	}
	d.names = names
	return d, nil
}
