package worker

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3, nil)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.True(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(0, nil)
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	<-done
	p.Stop()
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1, nil)
	p.Stop()
	require.False(t, p.Submit(func() {}))
	// 重複 Stop 不應 panic
	p.Stop()
}

func TestPoolRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPool(1, slog.New(slog.NewTextHandler(&buf, nil)))
	ran := false
	p.Submit(func() { panic("boom") })
	p.Submit(nil)
	p.Submit(func() { ran = true })
	p.Stop()

	require.True(t, ran)
	require.Contains(t, buf.String(), "worker task panicked")
	require.Contains(t, buf.String(), "boom")
}
