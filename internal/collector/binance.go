package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"

	"ChartDesk/internal/model"
)

const binanceKlineLimit = 1000

// BinanceFetcher implements Fetcher with Binance spot daily klines, so crypto
// pairs such as BTCUSDT can be charted next to equities.
type BinanceFetcher struct {
	client *binance.Client
	now    func() time.Time
}

// NewBinanceFetcher creates a fetcher; an empty baseURL uses the public API.
// Klines are public, so no API key is needed.
func NewBinanceFetcher(baseURL string) *BinanceFetcher {
	c := binance.NewClient("", "")
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	return &BinanceFetcher{client: c, now: time.Now}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchDaily pages through 1d klines from the start of the period.
func (f *BinanceFetcher) FetchDaily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	symbol = strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
	var start int64
	if days := period.Days(); days > 0 {
		start = f.now().AddDate(0, 0, -days).UnixMilli()
	}

	var bars []model.Bar
	for {
		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(start).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		for _, k := range klines {
			b, err := klineBar(k)
			if err != nil {
				return nil, fmt.Errorf("binance kline %s: %w", symbol, err)
			}
			bars = append(bars, b)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		start = klines[len(klines)-1].OpenTime + 1
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("binance %s: %w", symbol, model.ErrNotFound)
	}
	return bars, nil
}

func klineBar(k *binance.Kline) (model.Bar, error) {
	var vals [5]float64
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, err
		}
		vals[i] = v
	}
	return model.Bar{
		Time:   dayStart(time.UnixMilli(k.OpenTime).UTC()),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
