package clock

import (
	"sync"
	"testing"
	"time"
)

func TestSetAndNow(t *testing.T) {
	c := New()
	if got := c.Now(); got != 0 {
		t.Fatalf("fresh clock reads %v, want 0", got)
	}

	c.Set(1500 * time.Millisecond)
	if got := c.Now(); got != 1500*time.Millisecond {
		t.Errorf("Now() = %v, want 1.5s", got)
	}

	// Seeking backwards is allowed.
	c.Set(200 * time.Millisecond)
	if got := c.Now(); got != 200*time.Millisecond {
		t.Errorf("Now() after seek = %v, want 200ms", got)
	}
}

func TestAdvance(t *testing.T) {
	c := New()
	c.Set(time.Second)
	c.Advance(40 * time.Millisecond)
	c.Advance(40 * time.Millisecond)
	if got := c.Now(); got != time.Second+80*time.Millisecond {
		t.Errorf("Now() = %v, want 1.08s", got)
	}
}

func TestConcurrentReaders(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Advance(time.Millisecond)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := time.Duration(-1)
			for i := 0; i < 1000; i++ {
				now := c.Now()
				if now < prev {
					t.Errorf("clock went backwards: %v after %v", now, prev)
					return
				}
				prev = now
			}
		}()
	}

	wg.Wait()
	if got := c.Now(); got != time.Second {
		t.Errorf("final Now() = %v, want 1s", got)
	}
}
