package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// ErrUnknownSymbol is returned when no resolver knows the symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// NaverNameResolver scrapes the company name from the Naver Finance item page.
type NaverNameResolver struct {
	client *resty.Client
}

// NewNaverNameResolver creates a resolver against baseURL (empty for the
// public site).
func NewNaverNameResolver(baseURL, proxyURL string) *NaverNameResolver {
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(10 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &NaverNameResolver{client: client}
}

func (r *NaverNameResolver) ResolveName(ctx context.Context, symbol string) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetQueryParam("code", symbol).
		Get("/item/main.naver")
	if err != nil {
		return "", fmt.Errorf("naver name: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("naver name: status %d", resp.StatusCode())
	}

	// The page is served as EUC-KR on older mirrors.
	utf8Body, err := charset.NewReader(body, resp.Header().Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("naver name charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return "", fmt.Errorf("naver name parse: %w", err)
	}
	name := strings.TrimSpace(doc.Find("div.wrap_company h2 a").First().Text())
	if name == "" {
		return "", fmt.Errorf("naver %s: %w", symbol, ErrUnknownSymbol)
	}
	return name, nil
}

// ChainResolver asks each resolver in turn and returns the first name found.
type ChainResolver []NameResolver

func (c ChainResolver) ResolveName(ctx context.Context, symbol string) (string, error) {
	var errs []error
	for _, r := range c {
		name, err := r.ResolveName(ctx, symbol)
		if err == nil && name != "" {
			return name, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	}
	return "", errors.Join(errs...)
}

// CachedNameResolver fronts another resolver with a Redis cache. Cache
// failures are logged and otherwise ignored.
type CachedNameResolver struct {
	client *redis.Client
	next   NameResolver
	ttl    time.Duration
}

// NewCachedNameResolver wraps next with a cache held in client.
func NewCachedNameResolver(client *redis.Client, next NameResolver, ttl time.Duration) *CachedNameResolver {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CachedNameResolver{client: client, next: next, ttl: ttl}
}

func nameKey(symbol string) string {
	return "sentinel:name:" + symbol
}

func (c *CachedNameResolver) ResolveName(ctx context.Context, symbol string) (string, error) {
	key := nameKey(symbol)
	name, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && name != "":
		return name, nil
	case err != nil && err != redis.Nil:
		log.Warn().Err(err).Str("symbol", symbol).Msg("name cache read failed")
	}

	name, err = c.next.ResolveName(ctx, symbol)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, name, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("name cache write failed")
	}
	return name, nil
}

// StaticNames resolves names from a fixed table, used by the mock provider.
type StaticNames map[string]string

func (s StaticNames) ResolveName(_ context.Context, symbol string) (string, error) {
	if name, ok := s[symbol]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
}
