package spinner

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards concurrent writes from the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func TestSpinnerWritesAndClears(t *testing.T) {
	var buf syncBuffer

	stop := Start(&buf, "running task")
	time.Sleep(200 * time.Millisecond)
	stop()

	out := buf.String()
	assert.Contains(t, out, "running task")
	assert.Contains(t, out, "\r")
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf syncBuffer

	stop := Start(&buf, "running task")
	stop()
	assert.NotPanics(t, func() { stop() })
}
