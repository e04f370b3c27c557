package ntt

import "sync"

type cacheEntry struct {
	tables *tables
	pool   sync.Pool
}

/*
PlanCache builds the tables of every transform size once per modulus and
hands out plan handles over them. Handles obtained with Acquire are pooled and
must be given back with Release; handles from Plan are the caller's to keep.

PlanCache is safe for concurrent use.
*/
type PlanCache struct {
	modulus uint64

	genOnce sync.Once
	gen     uint64
	genErr  error

	mu      sync.RWMutex
	entries map[int]*cacheEntry
}

func NewPlanCache(modulus uint64) *PlanCache {
	return &PlanCache{
		modulus: modulus,
		entries: make(map[int]*cacheEntry),
	}
}

func (c *PlanCache) Modulus() uint64 {
	return c.modulus
}

func (c *PlanCache) entry(log int) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[log]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	if err := checkSize(log, c.modulus); err != nil {
		return nil, err
	}

	// the generator is shared by every size.
	c.genOnce.Do(func() {
		c.gen, c.genErr = generator(c.modulus)
	})
	if c.genErr != nil {
		return nil, c.genErr
	}

	// Build outside lock
	t, err := newTables(log, c.modulus, c.gen)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have won the race; keep the first one.
	if existing, ok := c.entries[log]; ok {
		return existing, nil
	}

	e := &cacheEntry{tables: t}
	e.pool.New = func() any { return t.newPlan() }
	c.entries[log] = e

	return e, nil
}

// Plan returns a new handle of size 2^log that is not tied to the pool.
func (c *PlanCache) Plan(log int) (*Plan, error) {
	e, err := c.entry(log)
	if err != nil {
		return nil, err
	}

	return e.tables.newPlan(), nil
}

// Acquire returns a pooled handle of size 2^log.
func (c *PlanCache) Acquire(log int) (*Plan, error) {
	e, err := c.entry(log)
	if err != nil {
		return nil, err
	}

	p := e.pool.Get().(*Plan)
	p.inPool.Store(false)

	return p, nil
}

// Release returns a handle obtained with Acquire. The handle must not be used
// afterwards. Releasing it again before the next Acquire hands it out is a
// no-op, and plans built elsewhere are ignored.
func (c *PlanCache) Release(p *Plan) {
	if p == nil {
		return
	}

	c.mu.RLock()
	e, ok := c.entries[p.log]
	c.mu.RUnlock()

	if !ok || e.tables != p.tables {
		return
	}

	if !p.inPool.CompareAndSwap(false, true) {
		return
	}

	e.pool.Put(p)
}

// Len returns the number of transform sizes built so far.
func (c *PlanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
