package container

import "sync"

// instanceCache holds shared instances. Each id has its own build guard so
// two goroutines asking for the same singleton for the first time build it
// once, while builds of different ids do not wait on each other.
type instanceCache struct {
	mu        sync.Mutex
	instances map[string]any
	guards    map[string]*sync.Mutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[string]any),
		guards:    make(map[string]*sync.Mutex),
	}
}

// getOrBuild returns the cached instance for id, or calls build and caches
// its result. A failed build caches nothing, so the next call tries again.
func (c *instanceCache) getOrBuild(id string, build func() (any, error)) (any, error) {
	c.mu.Lock()
	if inst, ok := c.instances[id]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	guard, ok := c.guards[id]
	if !ok {
		guard = &sync.Mutex{}
		c.guards[id] = guard
	}
	c.mu.Unlock()

	guard.Lock()
	defer guard.Unlock()

	// Another goroutine may have finished while we waited on the guard.
	c.mu.Lock()
	inst, ok := c.instances[id]
	c.mu.Unlock()
	if ok {
		return inst, nil
	}

	inst, err := build()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.instances[id] = inst
	c.mu.Unlock()
	return inst, nil
}

func (c *instanceCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.instances[id]
	return ok
}
