package cache

import "testing"

func square(k int) int { return k * k }

func identity(k int) int { return k }

func TestCacheReturnsGeneratedValue(t *testing.T) {
	for _, miss := range []bool{false, true} {
		c := NewWithOptions(8, identity, square, Options{AlwaysMiss: miss})
		for _, k := range []int{0, 3, -5, 11, 3, -5, 0, 19} {
			if got, want := c.Get(k), square(k); got != want {
				t.Errorf("AlwaysMiss=%v: Get(%d) = %d, want %d", miss, k, got, want)
			}
		}
	}
}

func TestCacheCallCountsDiffer(t *testing.T) {
	hitting := New(16, identity, square)
	missing := NewWithOptions(16, identity, square, Options{AlwaysMiss: true})

	for range 10 {
		hitting.Get(7)
		missing.Get(7)
	}

	calls, hits := hitting.Stats()
	if calls != 1 || hits != 9 {
		t.Errorf("working cache: calls=%d hits=%d, want 1/9", calls, hits)
	}
	calls, hits = missing.Stats()
	if calls != 10 || hits != 0 {
		t.Errorf("always-miss cache: calls=%d hits=%d, want 10/0", calls, hits)
	}
}

func TestCacheCollisionEvicts(t *testing.T) {
	c := New(4, identity, square)
	c.Get(1)
	c.Get(5) // same slot as 1
	if got := c.Get(1); got != 1 {
		t.Fatalf("Get(1) = %d, want 1", got)
	}
	calls, _ := c.Stats()
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (collision must evict)", calls)
	}
}

func TestCacheNegativeHash(t *testing.T) {
	c := New(3, identity, square)
	if got := c.Get(-7); got != 49 {
		t.Errorf("Get(-7) = %d, want 49", got)
	}
	if c.Cap() != 3 {
		t.Errorf("Cap() = %d, want 3", c.Cap())
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero capacity")
		}
	}()
	New(0, identity, square)
}
