package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write did not complete within
	// the configured timeout, typically a client draining too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the
	// stream completed, detected via request context cancellation.
	ErrClientGone = errors.New("client disconnected")
)

// Config controls chunked response streaming.
type Config struct {
	// WriteTimeout bounds a single chunk write.
	WriteTimeout time.Duration
	// ChunkSize is the flush granularity in bytes.
	ChunkSize int
}

// DefaultConfig returns the streaming defaults used for video delivery.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		ChunkSize:    256 * 1024,
	}
}

// Copy streams r to w in flushed chunks until EOF, a write timeout, or
// client disconnect. It returns the number of bytes written and the
// terminal error, nil on a complete stream.
func Copy(ctx context.Context, w http.ResponseWriter, r io.Reader, config Config) (int64, error) {
	flusher, _ := w.(http.Flusher)

	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}

	buf := make([]byte, chunkSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ErrClientGone
		default:
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			wn, writeErr := writeWithTimeout(ctx, w, buf[:n], config.WriteTimeout)
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// writeWithTimeout performs a single write, bounding it with timeout
// and aborting on context cancellation.
func writeWithTimeout(ctx context.Context, w io.Writer, p []byte, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		return w.Write(p)
	}

	type writeResult struct {
		n   int
		err error
	}
	resultCh := make(chan writeResult, 1)

	go func() {
		n, err := w.Write(p)
		resultCh <- writeResult{n, err}
	}()

	select {
	case result := <-resultCh:
		if result.err != nil && ctx.Err() != nil {
			// A write failure after the request context died is the
			// client leaving, not a server fault.
			return result.n, ErrClientGone
		}
		return result.n, result.err
	case <-ctx.Done():
		return 0, ErrClientGone
	case <-time.After(timeout):
		return 0, ErrWriteTimeout
	}
}
