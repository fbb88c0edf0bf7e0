package engine

// invalidRequestError signals a request that fails validation (bad
// parameters, path escaping the mount) for 400 mapping.
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }

// ErrInvalidRequest constructs an invalidRequestError.
func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err indicates a malformed request.
func IsInvalidRequest(err error) bool {
	_, ok := err.(invalidRequestError)
	return ok
}

// notFoundError signals a model file absent from the mount, for 404 mapping.
type notFoundError struct{ name string }

func (e notFoundError) Error() string { return "file not found inside the mount: " + e.name }

// ErrNotFound constructs a notFoundError for the given file name.
func ErrNotFound(name string) error { return notFoundError{name: name} }

// IsNotFound reports whether err indicates a missing model file.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// runtimeUnavailableError signals that no solver runtime is linked into
// this binary, so the HTTP layer can return 503 instead of 500.
type runtimeUnavailableError struct{ msg string }

func (e runtimeUnavailableError) Error() string { return e.msg }

// ErrRuntimeUnavailable constructs a runtimeUnavailableError.
func ErrRuntimeUnavailable(msg string) error { return runtimeUnavailableError{msg: msg} }

// IsRuntimeUnavailable reports whether err indicates a missing solver runtime.
func IsRuntimeUnavailable(err error) bool {
	_, ok := err.(runtimeUnavailableError)
	return ok
}

// solverFailureError signals an internal solver failure (error return or
// recovered panic). It is surfaced as a structured 500; the service
// process keeps serving.
type solverFailureError struct{ msg string }

func (e solverFailureError) Error() string { return e.msg }

// ErrSolverFailure constructs a solverFailureError.
func ErrSolverFailure(msg string) error { return solverFailureError{msg: msg} }

// IsSolverFailure reports whether err indicates an internal solver failure.
func IsSolverFailure(err error) bool {
	_, ok := err.(solverFailureError)
	return ok
}
