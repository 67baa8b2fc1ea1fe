package manager

// busyError signals that a load or switch is already in flight. The policy is
// reject-with-status: the caller is told which model is being worked on and
// may retry once the current operation settles.
type busyError struct{ target string }

func (e busyError) Error() string { return "busy loading: " + e.target }

// ErrBusy constructs a busyError for the in-flight target.
func ErrBusy(target string) error { return busyError{target: target} }

// IsBusy reports whether err indicates an in-flight load/switch.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// closedError signals the manager was shut down; shutdown is terminal for the
// process lifetime.
type closedError struct{}

func (closedError) Error() string { return "manager is shut down" }

// ErrClosed is returned by mutating calls after Shutdown.
func ErrClosed() error { return closedError{} }

// IsClosed reports whether err indicates a shut-down manager.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}
