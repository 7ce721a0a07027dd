package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroWorkers(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrZeroWorkers)
}

func TestEveryJobRunsExactlyOnce(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)

	const jobCount = 200
	var ran int64
	done := make(chan struct{}, jobCount)
	for i := 0; i < jobCount; i++ {
		p.Execute(func() {
			atomic.AddInt64(&ran, 1)
			done <- struct{}{}
		})
	}
	for i := 0; i < jobCount; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs to complete")
		}
	}
	assert.Equal(t, int64(jobCount), atomic.LoadInt64(&ran))
	p.Shutdown()
}

func TestShutdownWaitsForInFlightJobs(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished int32

	p.Execute(func() {
		close(started)
		<-release
		atomic.StoreInt32(&finished, 1)
	})
	<-started

	shutdownDone := make(chan struct{})
	go func() {
		p.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		t.Fatal("Shutdown returned before the in-flight job finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-shutdownDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after the job finished")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}
