package engine

// oomError marks an out-of-accelerator-memory failure during generation or
// load. It is recoverable: the caller can retry with a shorter prompt or a
// smaller model.
type oomError struct{ cause error }

func (e oomError) Error() string {
	if e.cause == nil {
		return "out of accelerator memory"
	}
	return "out of accelerator memory: " + e.cause.Error()
}

func (e oomError) Unwrap() error { return e.cause }

// OutOfMemory wraps err as a recoverable out-of-memory condition.
func OutOfMemory(err error) error { return oomError{cause: err} }

// IsOutOfMemory reports whether err indicates accelerator memory exhaustion.
func IsOutOfMemory(err error) bool {
	_, ok := err.(oomError)
	return ok
}

// dependencyUnavailableError signals a missing runtime dependency (e.g. a
// binary built without llama support) so callers can degrade cleanly.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}
