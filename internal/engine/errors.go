package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoAdapter                 = errors.New("no adapter")
	ErrCountChangedWithoutNotify = errors.New("adapter count changed without notification")
	ErrPositionOutOfRange        = errors.New("position out of range")
	ErrInvalidViewType           = errors.New("invalid view type")
	ErrNilItem                   = errors.New("adapter returned nil item")
	ErrInvalidColumnCount        = errors.New("invalid column count")
)

// ContractError reports a data source that broke its side of the Adapter
// contract. These are never retried.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("engine: %s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

func contractErr(op string, err error) error {
	return &ContractError{Op: op, Err: err}
}
