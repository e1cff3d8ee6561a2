package testutil

import (
	"bytes"
	"sync"
)

// TestWriter provides a simple io.Writer for tests.
type TestWriter struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// NewTestWriter creates a new TestWriter.
func NewTestWriter() *TestWriter {
	return &TestWriter{}
}

// Write implements io.Writer.
func (tw *TestWriter) Write(p []byte) (n int, err error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.Write(p)
}

// String returns the written content.
func (tw *TestWriter) String() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.String()
}

// Reset clears the buffer.
func (tw *TestWriter) Reset() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.buf.Reset()
}
