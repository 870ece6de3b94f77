package cmap

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{4, 4},
		{32, 32},
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{12, DefaultShardCount},
	}
	for _, tt := range tests {
		if got := NewWithShards[int](tt.in).ShardCount(); got != tt.want {
			t.Errorf("NewWithShards(%d).ShardCount() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMap_SetGetDelete(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)

	if v, ok := m.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("a still present after Delete")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMap_GetOrCreate(t *testing.T) {
	m := New[*int]()

	var calls atomic.Int32
	create := func() *int {
		calls.Add(1)
		v := 42
		return &v
	}

	var wg sync.WaitGroup
	results := make([]*int, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.GetOrCreate("client", create)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("create called %d times, want 1", calls.Load())
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("result %d differs from result 0", i)
		}
	}
}

func TestMap_DeleteFunc(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	removed := m.DeleteFunc(func(_ string, v int) bool { return v%2 == 0 })

	if removed != 50 {
		t.Errorf("removed = %d, want 50", removed)
	}
	if m.Len() != 50 {
		t.Errorf("Len() = %d, want 50", m.Len())
	}
	if _, ok := m.Get("3"); !ok {
		t.Error("odd entry 3 was removed")
	}
}

func TestMap_Range(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 20; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	sum, visited := 0, 0
	m.Range(func(_ string, v int) bool {
		sum += v
		visited++
		return true
	})
	if visited != 20 || sum != 190 {
		t.Errorf("Range visited %d entries summing %d, want 20 and 190", visited, sum)
	}

	visited = 0
	m.Range(func(string, int) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Range visited %d entries after stop, want 3", visited)
	}
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := New[int]()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa(g*1000 + i)
				m.Set(key, i)
				m.Get(key)
				if i%2 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if m.Len() != 8*250 {
		t.Errorf("Len() = %d, want %d", m.Len(), 8*250)
	}
}
