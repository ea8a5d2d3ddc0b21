package taskpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedSubmitRunsTaskAndReturnsItsError(t *testing.T) {
	p := NewFixed(2)
	defer p.Close()

	err := p.Submit(context.Background(), func() error { return nil })
	require.NoError(t, err)

	want := errors.New("boom")
	err = p.Submit(context.Background(), func() error { return want })
	assert.Equal(t, want, err)
}

func TestFixedBoundsConcurrency(t *testing.T) {
	p := NewFixed(2)
	defer p.Close()

	var inFlight, maxSeen int32
	release := make(chan struct{})

	for i := 0; i < 5; i++ {
		go func() {
			_ = p.Submit(context.Background(), func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					old := atomic.LoadInt32(&maxSeen)
					if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
						break
					}
				}
				<-release
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
	close(release)
}

func TestFixedSubmitRespectsContextCancellation(t *testing.T) {
	p := NewFixed(1)
	defer p.Close()

	block := make(chan struct{})
	go func() {
		_ = p.Submit(context.Background(), func() error {
			<-block
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(block)
}
