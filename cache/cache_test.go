package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestGetOrLoad(t *testing.T) {
	is := is.New(t)
	c := New[string](MinCapacity)
	loads := 0
	load := func() (string, error) {
		loads++
		return "camel", nil
	}
	v, cached, err := c.GetOrLoad(42, load)
	is.NoErr(err)
	is.True(!cached)
	is.Equal(v, "camel")

	v, cached, err = c.GetOrLoad(42, load)
	is.NoErr(err)
	is.True(cached)
	is.Equal(v, "camel")
	is.Equal(loads, 1)

	hits, misses := c.Stats()
	is.Equal(hits, 1)
	is.Equal(misses, 1)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	is := is.New(t)
	c := New[int](MinCapacity)
	boom := errors.New("boom")
	_, _, err := c.GetOrLoad(1, func() (int, error) { return 0, boom })
	is.Equal(err, boom)
	is.Equal(c.Len(), 0)
}

func TestEvictsOldest(t *testing.T) {
	is := is.New(t)
	c := New[int](0)
	is.Equal(c.Capacity(), MinCapacity)
	for i := 0; i < MinCapacity+3; i++ {
		c.Put(uint64(i), i)
	}
	is.Equal(c.Len(), MinCapacity)
	_, ok := c.Get(0)
	is.True(!ok)
	_, ok = c.Get(2)
	is.True(!ok)
	v, ok := c.Get(MinCapacity + 2)
	is.True(ok)
	is.Equal(v, MinCapacity+2)
}

func TestCapacityFromMemory(t *testing.T) {
	is := is.New(t)
	n := CapacityFromMemory(0.01, 4096)
	is.True(n >= MinCapacity)
	is.True(n <= MaxCapacity)
	is.Equal(CapacityFromMemory(0, 4096), MinCapacity)
}
