package chart

import (
	"math"
	"time"

	"ChartDesk/internal/calculator"
	"ChartDesk/internal/model"
)

var start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func testBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		x := float64(i)
		c := 50 + 5*math.Sin(x/6) + x*0.1
		o := c + math.Cos(x/2)
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   o,
			High:   math.Max(o, c) + 0.5,
			Low:    math.Min(o, c) - 0.5,
			Close:  c,
			Volume: 10000 + 100*x,
		}
	}
	return bars
}

func enriched(n int) *calculator.Enriched {
	return calculator.Compute(testBars(n), calculator.DefaultConfig())
}

func fullRequest() model.ViewRequest {
	req, _ := model.NewViewRequest("TEST", "2y", "daily", time.Time{}, time.Time{},
		[]string{"ma,boll,bolltp,volume,macd,kdj,rsi,obv,bias"})
	return req
}
