package acquire

import "fmt"

// TransientNetworkError is returned once every download attempt for an
// extension has failed. Err is the error of the last attempt.
type TransientNetworkError struct {
	ID       string
	Attempts int
	Err      error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("failed to download extension %s after %d attempts: %v", e.ID, e.Attempts, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

// ArchiveError is returned when a downloaded archive could not be unpacked
// and left no usable manifest behind.
type ArchiveError struct {
	ID   string
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("failed to unpack extension %s from %s: %v", e.ID, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
