package streaming

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCopyCompleteStream(t *testing.T) {
	payload := strings.Repeat("x", 300*1024)
	rec := httptest.NewRecorder()

	n, err := Copy(context.Background(), rec, strings.NewReader(payload), DefaultConfig())
	if err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("wrote %d bytes, want %d", n, len(payload))
	}
	if rec.Body.String() != payload {
		t.Error("body does not match payload")
	}
	if !rec.Flushed {
		t.Error("response was never flushed")
	}
}

func TestCopyClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	_, err := Copy(ctx, rec, strings.NewReader("data"), DefaultConfig())

	if !errors.Is(err, ErrClientGone) {
		t.Errorf("Copy error = %v, want ErrClientGone", err)
	}
}

// slowWriter blocks forever on the first write.
type slowWriter struct {
	*httptest.ResponseRecorder
	block chan struct{}
}

func (s *slowWriter) Write(p []byte) (int, error) {
	<-s.block
	return len(p), nil
}

func TestCopyWriteTimeout(t *testing.T) {
	sw := &slowWriter{
		ResponseRecorder: httptest.NewRecorder(),
		block:            make(chan struct{}),
	}
	defer close(sw.block)

	config := Config{WriteTimeout: 20 * time.Millisecond, ChunkSize: 1024}

	_, err := Copy(context.Background(), sw, strings.NewReader("data"), config)
	if !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("Copy error = %v, want ErrWriteTimeout", err)
	}
}

// errReader fails after yielding some data.
type errReader struct {
	data []byte
	err  error
	done bool
}

func (e *errReader) Read(p []byte) (int, error) {
	if e.done {
		return 0, e.err
	}
	e.done = true
	return copy(p, e.data), nil
}

func TestCopyPropagatesReadError(t *testing.T) {
	readErr := errors.New("pipe broke")
	rec := httptest.NewRecorder()

	n, err := Copy(context.Background(), rec, &errReader{data: []byte("abc"), err: readErr}, DefaultConfig())
	if !errors.Is(err, readErr) {
		t.Errorf("Copy error = %v, want %v", err, readErr)
	}
	if n != 3 {
		t.Errorf("wrote %d bytes before error, want 3", n)
	}
}

func TestCopyZeroChunkSizeDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := bytes.Repeat([]byte("y"), 128*1024)

	n, err := Copy(context.Background(), rec, bytes.NewReader(payload), Config{WriteTimeout: time.Second})
	if err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("wrote %d bytes, want %d", n, len(payload))
	}
}

var _ io.Reader = (*errReader)(nil)
