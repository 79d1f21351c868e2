package ocr

import "fmt"

// FailureKind classifies engine failures for the caller's retry and status
// mapping policy.
type FailureKind string

const (
	// KindUnavailable means the engine or its language data failed to
	// initialize. Not retryable per-request; requires operator intervention.
	KindUnavailable FailureKind = "Unavailable"
	// KindTimeout means recognition exceeded its time budget. Retryable,
	// possibly with a smaller image.
	KindTimeout FailureKind = "Timeout"
	// KindInternal means the engine failed in an unexpected way.
	KindInternal FailureKind = "Internal"
)

// EngineError wraps an engine failure with a stable kind.
type EngineError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ocr: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("ocr: %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Unavailable reports an engine initialization failure.
func Unavailable(op string, err error) error {
	return &EngineError{Kind: KindUnavailable, Op: op, Err: err}
}

// Timeout reports a recognition call that exceeded its budget.
func Timeout(op string, err error) error {
	return &EngineError{Kind: KindTimeout, Op: op, Err: err}
}

// Internal reports an unexpected engine failure.
func Internal(op string, err error) error {
	return &EngineError{Kind: KindInternal, Op: op, Err: err}
}
