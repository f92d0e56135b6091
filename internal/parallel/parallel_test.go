package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	const n = 1000
	var counter int64
	seen := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	if counter != n {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForRange_Chunks(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 10}

	var chunks, covered int64
	ForRange(95, func(start, end int) {
		if end-start < 1 {
			t.Errorf("empty chunk [%d, %d)", start, end)
		}
		atomic.AddInt64(&chunks, 1)
		atomic.AddInt64(&covered, int64(end-start))
	}, cfg)

	if covered != 95 {
		t.Errorf("covered %d items, want 95", covered)
	}
	if chunks != 3 {
		t.Errorf("ran %d chunks, want 3", chunks)
	}
}

func TestFor_Sequential(t *testing.T) {
	var chunks int
	ForRange(100, func(start, end int) {
		chunks++
		if start != 0 || end != 100 {
			t.Errorf("got chunk [%d, %d), want [0, 100)", start, end)
		}
	}, Sequential())

	if chunks != 1 {
		t.Errorf("Expected 1 chunk, got %d", chunks)
	}

	ForRange(0, func(_, _ int) { t.Error("f called for an empty range") }, DefaultConfig())
}
