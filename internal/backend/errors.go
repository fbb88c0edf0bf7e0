package backend

// configurationError signals a missing or unusable configuration value
// (solver executable path, service URL). Raised at first use, not at load.
type configurationError struct{ msg string }

func (e configurationError) Error() string { return e.msg }

// ErrConfiguration constructs a configurationError.
func ErrConfiguration(msg string) error { return configurationError{msg: msg} }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	_, ok := err.(configurationError)
	return ok
}

// inputNotFoundError signals a missing local input model file.
type inputNotFoundError struct{ path string }

func (e inputNotFoundError) Error() string { return "input file not found: " + e.path }

// ErrInputNotFound constructs an inputNotFoundError for the given path.
func ErrInputNotFound(path string) error { return inputNotFoundError{path: path} }

// IsInputNotFound reports whether err indicates a missing input file.
func IsInputNotFound(err error) bool {
	_, ok := err.(inputNotFoundError)
	return ok
}

// backendError signals a failed solver subprocess: nonzero exit, or a
// presolve that exited 0 without producing its declared artifact.
type backendError struct{ msg string }

func (e backendError) Error() string { return e.msg }

// ErrBackend constructs a backendError.
func ErrBackend(msg string) error { return backendError{msg: msg} }

// IsBackend reports whether err is a solver subprocess failure.
func IsBackend(err error) bool {
	_, ok := err.(backendError)
	return ok
}

// transportError signals a network-level failure reaching the remote
// service; the underlying cause is kept for diagnostics.
type transportError struct {
	url   string
	cause error
}

func (e transportError) Error() string { return "remote service unreachable at " + e.url + ": " + e.cause.Error() }

func (e transportError) Unwrap() error { return e.cause }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	_, ok := err.(transportError)
	return ok
}
