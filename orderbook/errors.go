package orderbook

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDecimal     = errors.New("malformed decimal")
	ErrMalformedTick        = errors.New("malformed tick size")
	ErrMissingPrecision     = errors.New("precision not known")
	ErrPrecisionChanged     = errors.New("precision changed during subscription")
	ErrUpdateBeforeSnapshot = errors.New("update received before snapshot")
)

// LevelError locates a wire entry that could not be parsed.
type LevelError struct {
	Side  Side
	Index int
	Field string
	Text  string
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("%s[%d].%s %q: %v", e.Side, e.Index, e.Field, e.Text, e.Err)
}

func (e *LevelError) Unwrap() error {
	return e.Err
}
