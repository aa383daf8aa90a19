package tm1637

import "errors"

// Errors
var (
	ErrFailed         = errors.New("tm1637: operation failed")
	ErrNilHandle      = errors.New("tm1637: handle is nil")
	ErrNotInitialized = errors.New("tm1637: handle is not initialized")
	ErrMissingBinding = errors.New("tm1637: missing binding")
	ErrRange          = errors.New("tm1637: out of range")
)

// Status is the numeric result code of an operation.
type Status uint8

// Result codes, in the order they are checked.
const (
	StatusOK Status = iota
	StatusFailed
	StatusNilHandle
	StatusNotInitialized
	StatusMissingBinding
	StatusRange
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "operation failed"
	case StatusNilHandle:
		return "nil handle"
	case StatusNotInitialized:
		return "not initialized"
	case StatusMissingBinding:
		return "missing binding"
	case StatusRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// StatusOf maps an error returned by this package to its Status. Errors that
// don't wrap one of the package errors count as StatusFailed.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNilHandle):
		return StatusNilHandle
	case errors.Is(err, ErrNotInitialized):
		return StatusNotInitialized
	case errors.Is(err, ErrMissingBinding):
		return StatusMissingBinding
	case errors.Is(err, ErrRange):
		return StatusRange
	default:
		return StatusFailed
	}
}
