package logbox

import (
	"time"
)

// WaitForPut blocks until either a new put occurs or timeout elapses.
// It returns true if woken by a put, false on timeout.
func (b *Box) WaitForPut(timeout time.Duration) bool {
	b.mu.Lock()
	ch := b.notifyCh
	b.mu.Unlock()
	if timeout <= 0 {
		<-ch
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}
