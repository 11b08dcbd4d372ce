package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestGetLoadsOnce(t *testing.T) {
	is := is.New(t)
	c := New[string](0)
	loads := 0
	load := func(key uint64) (string, error) {
		loads++
		return "obj", nil
	}
	for i := 0; i < 3; i++ {
		obj, err := c.Get(7, load)
		is.NoErr(err)
		is.Equal(obj, "obj")
	}
	is.Equal(loads, 1)
	hits, misses := c.Stats()
	is.Equal(hits, 2)
	is.Equal(misses, 1)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	is := is.New(t)
	c := New[int](0)
	boom := errors.New("boom")
	_, err := c.Get(1, func(uint64) (int, error) { return 0, boom })
	is.Equal(err, boom)
	is.Equal(c.Len(), 0)
	v, err := c.Get(1, func(uint64) (int, error) { return 5, nil })
	is.NoErr(err)
	is.Equal(v, 5)
}

func TestCapacityResets(t *testing.T) {
	is := is.New(t)
	c := New[uint64](2)
	ident := func(k uint64) (uint64, error) { return k, nil }
	for k := uint64(0); k < 2; k++ {
		_, err := c.Get(k, ident)
		is.NoErr(err)
	}
	is.Equal(c.Len(), 2)
	_, err := c.Get(2, ident)
	is.NoErr(err)
	is.Equal(c.Len(), 1)
	c.Clear()
	is.Equal(c.Len(), 0)
}

func TestConcurrentGet(t *testing.T) {
	is := is.New(t)
	c := New[int](0)
	var mu sync.Mutex
	loads := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(42, func(uint64) (int, error) {
				mu.Lock()
				loads++
				mu.Unlock()
				return 1, nil
			})
		}()
	}
	wg.Wait()
	is.Equal(loads, 1)
}
