package primego

import (
	"errors"
	"fmt"

	"github.com/hupe1980/primego/algorithm"
)

var (
	// ErrUnsupportedAlgorithm is returned when the requested algorithm is not
	// registered.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrClosed is returned by operations on a closed Service.
	ErrClosed = errors.New("primego: service closed")
)

// ErrUnsupported carries the algorithm name that could not be resolved.
//
// errors.Is(err, ErrUnsupportedAlgorithm) reports true for it.
// The underlying registry error (if any) can be accessed via errors.Unwrap.
type ErrUnsupported struct {
	Name  string
	cause error
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("Unsupported algorithm: %s", e.Name)
}

func (e *ErrUnsupported) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrUnsupportedAlgorithm) match.
func (e *ErrUnsupported) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}

func translateError(name string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, algorithm.ErrUnsupportedAlgorithm) {
		return &ErrUnsupported{Name: name, cause: err}
	}

	return err
}
