package installer

// UsageError reports a call that can never succeed as made: the wrong
// process, a malformed reference, an incompatible host or an unusable proxy
// setting. It is never retried.
type UsageError struct {
	Message string
	Err     error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
