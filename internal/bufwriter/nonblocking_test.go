package bufwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter accumulates everything written to it and never blocks.
type recordingWriter struct {
	written []byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.written = append(w.written, p...)
	return len(p), nil
}

func TestWritesAndFlushesWithNoBlocking(t *testing.T) {
	inner := &recordingWriter{}
	w := New(inner, 8)

	n, err := w.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	// Small write stays buffered, nothing reaches the socket yet.
	assert.Empty(t, inner.written)
	assert.Equal(t, 4, w.Pending())

	require.NoError(t, w.Flush())
	assert.Equal(t, "abcd", string(inner.written))
	assert.Zero(t, w.Pending())
}

func TestDirectThroughWriteExceedingCapacity(t *testing.T) {
	inner := &recordingWriter{}
	w := New(inner, 4)

	big := []byte("this write is much longer than capacity")
	n, err := w.Write(big)
	require.NoError(t, err)
	assert.Equal(t, len(big), n)
	// Written directly through; nothing blocked, so nothing stays pending.
	assert.Equal(t, string(big), string(inner.written))
	assert.Zero(t, w.Pending())
}

func TestBufferNeverGrowsBeyondCapacityPlusLargestDirectWrite(t *testing.T) {
	inner := &recordingWriter{}
	w := New(inner, 4)

	_, err := w.Write([]byte("ab"))
	require.NoError(t, err)

	big := make([]byte, 100)
	_, err = w.Write(big)
	require.NoError(t, err)

	assert.LessOrEqual(t, cap(w.buf), 4+100)
}
