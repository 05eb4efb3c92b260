package collector

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"StockSentinel/internal/model"
)

// NaverFetcher implements Fetcher using the Naver Finance chart feed, the
// primary source for KRX listings.
type NaverFetcher struct {
	client *resty.Client
	now    func() time.Time
}

// NewNaverFetcher creates a fetcher against baseURL (empty for the public
// endpoint) with optional proxy support.
func NewNaverFetcher(baseURL, proxyURL string) *NaverFetcher {
	if baseURL == "" {
		baseURL = "https://fchart.stock.naver.com"
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &NaverFetcher{client: client, now: time.Now}
}

func (f *NaverFetcher) Name() string { return "naver" }

// naverChart is the XML shape of the chart feed. Each item carries
// "YYYYMMDD|open|high|low|close|volume".
type naverChart struct {
	ChartData struct {
		Symbol string `xml:"symbol,attr"`
		Name   string `xml:"name,attr"`
		Items  []struct {
			Data string `xml:"data,attr"`
		} `xml:"item"`
	} `xml:"chartdata"`
}

func (f *NaverFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":      symbol,
			"timeframe":   "day",
			"count":       strconv.Itoa(days),
			"requestType": "0",
		}).
		Get("/sise.nhn")
	if err != nil {
		return nil, fmt.Errorf("naver fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("naver: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	chart, err := decodeNaverChart(resp.Body())
	if err != nil {
		return nil, err
	}
	bars := make([]model.PriceBar, 0, len(chart.ChartData.Items))
	for _, item := range chart.ChartData.Items {
		bar, err := parseNaverItem(item.Data)
		if err != nil {
			return nil, fmt.Errorf("naver item %q: %w", item.Data, err)
		}
		if bar.Close <= 0 {
			continue // suspended days are reported with zero prices
		}
		bars = append(bars, bar)
	}
	bars = trimLookback(bars, f.now(), days)
	if len(bars) == 0 {
		return nil, fmt.Errorf("naver %s: %w", symbol, ErrNoData)
	}
	return model.NewSeries(bars), nil
}

// decodeNaverChart parses the feed, which declares EUC-KR encoding.
func decodeNaverChart(body []byte) (*naverChart, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	var chart naverChart
	if err := dec.Decode(&chart); err != nil {
		return nil, fmt.Errorf("naver decode: %w", err)
	}
	return &chart, nil
}

func parseNaverItem(data string) (model.PriceBar, error) {
	fields := strings.Split(data, "|")
	if len(fields) != 6 {
		return model.PriceBar{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	date, err := time.Parse("20060102", fields[0])
	if err != nil {
		return model.PriceBar{}, err
	}
	prices := make([]float64, 4)
	for i := range prices {
		d, err := decimal.NewFromString(fields[i+1])
		if err != nil {
			return model.PriceBar{}, err
		}
		prices[i] = d.InexactFloat64()
	}
	volume, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return model.PriceBar{}, err
	}
	return model.PriceBar{
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
