package serialq

import "sync"

// Region bundles one queue's shared metadata with its data bytes. The
// composition step allocates regions and hands each component an id; the
// component binds its own Handle view over the shared memory.
type Region struct {
	meta Queue
	data []byte
}

// Bind returns a fresh view over the region. Each side binds exactly once.
func (r *Region) Bind() *Handle { return Bind(&r.meta, r.data) }

// RegionID is an opaque identifier for a registered Region.
// The zero id is invalid.
type RegionID uint32

var (
	regMu   sync.RWMutex
	regions          = map[RegionID]*Region{}
	nextID  RegionID = 1
)

// NewRegion allocates a queue region with a power-of-two data size (>= 2),
// registers it, and returns its id and pointer.
func NewRegion(size int) (RegionID, *Region) {
	if size < 2 || (size&(size-1)) != 0 {
		panic("serialq: region size must be power of two >= 2")
	}
	r := &Region{data: make([]byte, size)}
	regMu.Lock()
	id := nextID
	nextID++
	regions[id] = r
	regMu.Unlock()
	return id, r
}

// Lookup returns the Region for an id, or nil if the id is zero or unknown.
func Lookup(id RegionID) *Region {
	if id == 0 {
		return nil
	}
	regMu.RLock()
	r := regions[id]
	regMu.RUnlock()
	return r
}

// Release removes an id from the registry. Existing Handles stay valid.
func Release(id RegionID) {
	regMu.Lock()
	delete(regions, id)
	regMu.Unlock()
}
