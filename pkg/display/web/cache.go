package web

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
)

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of recently sent payloads, keyed by their
// xxhash. Clients keep a mirror of it, so a repeated payload can be
// sent as an index instead.
type cache struct {
	cache []*cacheEntry
	idx   int
	size  int
	sync.RWMutex
}

func newCache(size int) *cache {
	c := &cache{
		cache: make([]*cacheEntry, size),
		size:  size,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{}
	}

	return c
}

// lookup returns the slot holding data, adding it if it isn't cached.
// hit is true if data was already in the cache.
func (c *cache) lookup(data []byte) (idx int, hit bool) {
	c.Lock()
	defer c.Unlock()

	hash := xxhash.Sum64(data)
	if idx := c.index(hash); idx != -1 {
		return idx, true
	}

	idx = c.idx
	c.add(hash, data)
	return idx, false
}

func (c *cache) add(hash uint64, output []byte) {
	c.cache[c.idx].data = output
	c.cache[c.idx].hash = hash

	c.idx = (c.idx + 1) % c.size
}

func (c *cache) index(hash uint64) int {
	for i, e := range c.cache {
		if len(e.data) > 0 && e.hash == hash {
			return i
		}
	}

	return -1
}

// sync encodes every populated entry as [length, index, data...].
func (c *cache) sync() []byte {
	c.RLock()
	defer c.RUnlock()

	var data []byte
	for i, e := range c.cache {
		if len(e.data) == 0 {
			continue
		}
		data = binary.LittleEndian.AppendUint16(data, uint16(len(e.data)))
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		data = append(data, e.data...)
	}
	return data
}
