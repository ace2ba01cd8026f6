package bars

import (
	"math"
	"testing"

	"ChartDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok := model.Bar{Time: day(2024, 1, 2), Open: 10, High: 11, Low: 9, Close: 10, Volume: 5}
	require.NoError(t, Validate(ok))

	inverted := ok
	inverted.High, inverted.Low = 8, 9
	assert.ErrorIs(t, Validate(inverted), model.ErrMalformedBar)

	negative := ok
	negative.Volume = -1
	assert.ErrorIs(t, Validate(negative), model.ErrMalformedBar)

	missing := ok
	missing.High, missing.Volume = math.NaN(), math.NaN()
	assert.NoError(t, Validate(missing))
}

func TestNormalize_DropsSortsDedups(t *testing.T) {
	in := []model.Bar{
		{Time: day(2024, 1, 3), Open: 3, High: 3, Low: 3, Close: 3, Volume: 1},
		{Time: day(2024, 1, 1), Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
		{Time: day(2024, 1, 2), Open: 2, High: 1, Low: 5, Close: 2, Volume: 1}, // high < low
		{Time: day(2024, 1, 3), Open: 4, High: 4, Low: 4, Close: 4, Volume: 1},
	}
	out, dropped := Normalize(in)
	assert.Equal(t, 1, dropped)
	require.Len(t, out, 2)
	assert.Equal(t, day(2024, 1, 1), out[0].Time)
	assert.Equal(t, 4.0, out[1].Close, "later duplicate wins")
}
