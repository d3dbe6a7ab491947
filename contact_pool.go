package goom

// ContactPool is a step scoped arena of contacts.
// Get hands out slab entries until the slab is exhausted and heap allocated
// contacts after that. Reset rewinds the cursor without freeing anything.
type ContactPool struct {
	slab     []Contact
	cursor   int
	overflow int
}

// NewContactPool returns a pool with room for size contacts.
func NewContactPool(size int) *ContactPool {
	return &ContactPool{
		slab: make([]Contact, max(size, 0)),
	}
}

// Get returns a zeroed contact.
func (pool *ContactPool) Get() *Contact {
	if pool.cursor < len(pool.slab) {
		c := &pool.slab[pool.cursor]
		pool.cursor++
		*c = Contact{}
		return c
	}
	pool.overflow++
	return &Contact{}
}

// Owns returns true if c lives in the slab.
func (pool *ContactPool) Owns(c *Contact) bool {
	for i := range pool.slab {
		if &pool.slab[i] == c {
			return true
		}
	}
	return false
}

// Reset rewinds the cursor.
func (pool *ContactPool) Reset() {
	pool.cursor = 0
	pool.overflow = 0
}

// Cap returns the slab size.
func (pool *ContactPool) Cap() int {
	return len(pool.slab)
}

// Used returns the number of slab entries handed out since the last Reset.
func (pool *ContactPool) Used() int {
	return pool.cursor
}

// Overflow returns the number of heap allocated contacts since the last Reset.
func (pool *ContactPool) Overflow() int {
	return pool.overflow
}
