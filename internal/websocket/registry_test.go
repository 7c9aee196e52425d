package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	a := newClient(newFakeConn(), 1)
	b := newClient(newFakeConn(), 1)

	r.Add(a)
	r.Add(a)
	r.Add(b)
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Contains(a))

	r.Remove(a)
	r.Remove(a)
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Contains(a))
	assert.True(t, r.Contains(b))
}

func TestRegistryForEachAllowsRemove(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Add(newClient(newFakeConn(), 1))
	}

	visited := 0
	r.ForEach(func(c *Client) {
		visited++
		r.Remove(c)
	})

	assert.Equal(t, 5, visited)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newClient(newFakeConn(), 1)
			r.Add(c)
			r.ForEach(func(*Client) {})
			r.Remove(c)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
