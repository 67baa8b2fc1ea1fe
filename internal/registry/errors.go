package registry

// unknownModelError indicates a requested id is not in the registry.
type unknownModelError struct{ id string }

func (e unknownModelError) Error() string { return "unknown model: " + e.id }

// ErrUnknownModel constructs the lookup-miss error for the given id.
func ErrUnknownModel(id string) error { return unknownModelError{id: id} }

// IsUnknownModel reports whether err is a registry lookup miss.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}
