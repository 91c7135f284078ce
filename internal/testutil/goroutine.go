// Package testutil holds shared test helpers.
package testutil

import (
	"runtime"
	"testing"
	"time"
)

// AssertNoGoroutineLeaks waits for the goroutine count to drop back to
// baseline plus margin, failing the test if it does not within 5 seconds.
// Call it after shutting down all workers under test.
func AssertNoGoroutineLeaks(t *testing.T, baseline, margin int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		current := runtime.NumGoroutine()
		if current <= baseline+margin {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("goroutine leak: baseline=%d current=%d margin=%d", baseline, current, margin)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
