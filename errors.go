package fusion

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates a request the engine cannot act on, such as a
	// carrier merge without a phone number.
	ErrInvalidInput = errors.New("invalid input")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindHash represents a missing or failing hash primitive.
	KindHash = "hash"

	// KindTransport represents queue or network failures.
	KindTransport = "transport"

	// KindCanceled represents a caller cancellation or deadline.
	KindCanceled = "canceled"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of error.
//
// Error supports unwrapping, so errors.Is and errors.As see through it:
//
//	_, err := engine.Analyze(ctx, findings)
//	if errors.Is(err, persona.ErrHashUnavailable) {
//		// rebuild with crypto/sha256 linked in
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Analyze").
	Op string

	// Kind categorizes the error (e.g., KindValidation, KindHash).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fusion: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("fusion: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("fusion: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op, when the target sets one), and
// otherwise delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

func newError(kind, op string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return newError(KindValidation, op, err)
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return newError(KindConfiguration, op, err)
}

// NewHashError creates a new Error with KindHash.
func NewHashError(op string, err error) *Error {
	return newError(KindHash, op, err)
}

// NewTransportError creates a new Error with KindTransport.
func NewTransportError(op string, err error) *Error {
	return newError(KindTransport, op, err)
}

// NewCanceledError creates a new Error with KindCanceled.
func NewCanceledError(op string, err error) *Error {
	return newError(KindCanceled, op, err)
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return newError(KindInternal, op, err)
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. If logger is nil, slog.Default() is used.
//
//	defer fusion.CloseWithLog(client, logger, "redis client")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
