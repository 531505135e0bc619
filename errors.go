package mandel

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNotFound      = errors.New("not found")
	ErrIO            = errors.New("i/o error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidConfig ErrorKind = "invalid_config"
	KindNotFound      ErrorKind = "not_found"
	KindIO            ErrorKind = "io"
	KindCanceled      ErrorKind = "canceled"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // optional: file or directory involved
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against the sentinel of its kind.
func (e *OpError) Is(target error) bool {
	switch target {
	case ErrInvalidConfig:
		return e.Kind == KindInvalidConfig
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

// IsKind reports whether err carries an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// InvalidConfig builds a configuration error for op.
func InvalidConfig(op string, err error) error {
	return invalidConfig(op, err)
}

func invalidConfig(op string, err error) *OpError {
	return &OpError{Op: op, Kind: KindInvalidConfig, Err: err}
}
