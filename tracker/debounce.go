package tracker

import (
	"sync"
	"time"
)

// Debounce wraps fn so that rapid triggers coalesce: fn runs once after the
// trigger has been idle for d. A newer trigger supersedes any pending one.
// The returned stop function cancels a pending run. fn runs on its own
// goroutine, so anything it touches must be safe to share with the
// triggering goroutine.
func Debounce(d time.Duration, fn func()) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}
