package calculator

import (
	"fmt"

	"ChartDesk/internal/model"
)

// InsufficientDataError reports an indicator whose window is longer than the
// available bar series. Its column stays undefined; the rest of the table is
// still computed.
type InsufficientDataError struct {
	Indicator string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs %d bars, have %d", e.Indicator, e.Need, e.Have)
}

func (e *InsufficientDataError) Unwrap() error {
	return model.ErrInsufficientData
}
