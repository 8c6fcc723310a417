package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/imgpipe/images-ms-go/internal/port"
)

// validateCandidate runs the intake checks in order, short-circuiting on the
// first failure: declared type against the allow-set, declared size against
// the ceiling, then the actual byte signature against the declared type.
// Nothing is written anywhere on rejection. The returned reader still yields
// the full stream, including the sniffed prefix.
func validateCandidate(in port.ProcessUploadInput, maxBytes int64) (io.Reader, error) {
	if in.DeclaredMimeType == "" {
		return nil, &InvalidInputError{Reason: "missing content type"}
	}
	if !IsMimeTypeAllowed(in.DeclaredMimeType) {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("unsupported mime-type %q", in.DeclaredMimeType)}
	}

	if in.DeclaredSizeBytes > maxBytes {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("file too large: %d bytes (max size: %d bytes)", in.DeclaredSizeBytes, maxBytes)}
	}

	br := bufio.NewReaderSize(in.Reader, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, &StorageError{Op: "reading upload", Err: err}
	}
	if len(head) == 0 {
		return nil, &InvalidInputError{Reason: "empty file"}
	}
	if sniffed := SniffMimeType(head); sniffed != in.DeclaredMimeType {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("declared mime-type %q does not match detected %q", in.DeclaredMimeType, sniffed)}
	}

	return newCapReader(br, maxBytes), nil
}

// capReader enforces the byte ceiling while streaming to staging, so a lying
// Content-Length cannot smuggle an oversize body past the declared-size check.
// It allows one byte beyond the limit so that a stream of exactly max bytes
// still terminates with a clean EOF.
type capReader struct {
	r         io.Reader
	remaining int64
}

func newCapReader(r io.Reader, max int64) *capReader {
	return &capReader{r: r, remaining: max + 1}
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, &InvalidInputError{Reason: "file exceeds the maximum allowed size"}
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}
