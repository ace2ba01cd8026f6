package calculator

import "math"

// Band is a Bollinger channel.
type Band struct {
	Upper Series
	Mid   Series
	Lower Series
}

// Bandwidth returns (upper-lower)/mid at i.
func (b Band) Bandwidth(i int) (float64, bool) {
	up, ok1 := b.Upper.At(i)
	mid, ok2 := b.Mid.At(i)
	low, ok3 := b.Lower.At(i)
	if !ok1 || !ok2 || !ok3 || mid == 0 {
		return 0, false
	}
	return (up - low) / mid, true
}

// Bollinger computes mid = SMA(values, n) and mid ± k·σ, where σ is the
// population standard deviation of the same n values.
func Bollinger(values Series, n int, k float64) Band {
	band := Band{
		Upper: undefinedSeries(len(values)),
		Mid:   SMA(values, n),
		Lower: undefinedSeries(len(values)),
	}
	for i, mid := range band.Mid {
		if !isDefined(mid) {
			continue
		}
		w, _ := window(values, i, n)
		variance := 0.0
		for _, v := range w {
			d := v - mid
			variance += d * d
		}
		std := math.Sqrt(variance / float64(n))
		band.Upper[i] = mid + k*std
		band.Lower[i] = mid - k*std
	}
	return band
}
