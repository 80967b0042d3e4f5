package virttx

// pendingQueue records clients blocked on driver-queue space, in the order
// they blocked. A client is a member at most once, so logical length never
// exceeds the client count; head/tail are monotonic counters used only for
// length, and backing indices are always taken modulo the fixed capacity so
// the array survives unbounded push/pop cycles.
type pendingQueue struct {
	queue  []uint32
	member []bool
	head   uint32
	tail   uint32
}

func newPending(clients int) pendingQueue {
	return pendingQueue{
		queue:  make([]uint32, clients),
		member: make([]bool, clients),
	}
}

func (p *pendingQueue) length() uint32 { return p.tail - p.head }

func (p *pendingQueue) isMember(client uint32) bool { return p.member[client] }

// push appends a client unless it is already queued. Overflow is impossible
// while the dedup invariant holds; hitting it means the invariant broke.
func (p *pendingQueue) push(client uint32) {
	if p.member[client] {
		return
	}
	if p.length() >= uint32(len(p.queue)) {
		panic("virttx: pending queue overflow")
	}
	p.queue[p.tail%uint32(len(p.queue))] = client
	p.member[client] = true
	p.tail++
}

// pop removes and returns the oldest pending client. Calling it on an empty
// queue is a programming error.
func (p *pendingQueue) pop() uint32 {
	if p.length() == 0 {
		panic("virttx: pop from empty pending queue")
	}
	client := p.queue[p.head%uint32(len(p.queue))]
	p.member[client] = false
	p.head++
	return client
}
