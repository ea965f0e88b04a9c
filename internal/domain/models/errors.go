package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks caller mistakes such as a non-positive period.
var ErrInvalidArgument = errors.New("invalid argument")

// UpstreamError reports that the market-data provider could not produce
// data for Op. It is never cached.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// DataShapeError reports columns missing from a provider table.
type DataShapeError struct {
	Source  string
	Missing []string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("%s: missing fields %s", e.Source, strings.Join(e.Missing, ", "))
}

// InvalidArgumentf builds an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
