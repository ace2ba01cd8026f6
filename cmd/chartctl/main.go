package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ChartDesk/internal/app"
	"ChartDesk/internal/chart"
	"ChartDesk/internal/config"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/model"
	"ChartDesk/internal/report"
)

func main() {
	var (
		symbol     = flag.String("symbol", "", "ticker symbol, e.g. AAPL or 2330.TW")
		period     = flag.String("period", "2y", "history to fetch: 2y, 5y or max")
		frequency  = flag.String("frequency", "daily", "daily, weekly, monthly, quarterly or yearly")
		from       = flag.String("from", "", "visible range start (YYYY-MM-DD)")
		to         = flag.String("to", "", "visible range end (YYYY-MM-DD)")
		indicators = flag.String("indicators", "", "comma separated indicator groups (default all)")
		provider   = flag.String("provider", "", "override the configured data provider")
		htmlOut    = flag.String("html", "", "write an interactive chart page to this file")
		jsonOut    = flag.Bool("json", false, "print the full result as JSON")
		timeout    = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	if err := run(*symbol, *period, *frequency, *from, *to, *indicators, *provider, *htmlOut, *jsonOut, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "chartctl:", err)
		os.Exit(1)
	}
}

func run(symbol, period, frequency, from, to, indicators, provider, htmlOut string, jsonOut bool, timeout time.Duration) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}
	if provider != "" {
		cfg.DataSource.Provider = provider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init("warn", "development"); err != nil {
		return err
	}
	defer logger.Sync()

	start, err := parseDate(from)
	if err != nil {
		return err
	}
	end, err := parseDate(to)
	if err != nil {
		return err
	}
	var groups []string
	if indicators != "" {
		groups = strings.Split(indicators, ",")
	}
	req, err := model.NewViewRequest(symbol, period, frequency, start, end, groups)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Pipeline.Render(ctx, req)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("%s %s: %d bars, showing %d\n\n", req.Symbol, req.Frequency, res.Bars, res.Range.Bars())
	fmt.Println(report.FormatStrategies(req.Symbol, res.Strategies))
	fmt.Println()
	fmt.Println(report.FormatLegend(res.Legend))
	if w := report.FormatWarnings(res.Warnings); w != "" {
		fmt.Println()
		fmt.Print(w)
	}

	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := chart.RenderHTML(f, req.Symbol+" "+string(req.Frequency), res.Timeline, res.FullPanes, res.Range); err != nil {
			return err
		}
		fmt.Printf("\nchart written to %s\n", htmlOut)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}
	return t, nil
}
