package normalize

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyCandles is reported when the upstream returns no candles for a unit.
var ErrEmptyCandles = errors.New("empty candle set")

// NormalizationError reports an upstream payload that violates the expected shape.
type NormalizationError struct {
	Unit   string
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize %s: %s: %v", e.Unit, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalize %s: %s", e.Unit, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
