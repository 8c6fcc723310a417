package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrArtifactNotFound = errors.New("artifact store: object not found")
	ErrStorageInternal  = errors.New("artifact store: internal error")
)

// InvalidInputError rejects a candidate before any disk or processing work:
// bad declared type, oversize, or a spoofed byte signature. Client error, no
// retry.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }
func (e *InvalidInputError) Kind() string  { return "invalid_input" }

// TranscodeError covers corrupt or unsupported image bytes and internal codec
// failures. The same bytes fail identically, so it is never retried.
type TranscodeError struct {
	Reason string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcode: %s: %v", e.Reason, e.Err)
	}
	return "transcode: " + e.Reason
}
func (e *TranscodeError) Unwrap() error { return e.Err }
func (e *TranscodeError) Kind() string  { return "transcode" }

// StorageError covers stage/publish/rename failures. Transient instances are
// safe to retry at the caller's discretion since every attempt publishes
// under a fresh identifier.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}
func (e *StorageError) Unwrap() error { return e.Err }
func (e *StorageError) Kind() string  { return "storage" }
