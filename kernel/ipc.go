package kernel

import "sync/atomic"

// DefaultMailboxSlots is the capacity used when New is given a non-positive size.
const DefaultMailboxSlots = 16

type slot[T any] struct {
	seq atomic.Uint32
	val T
}

// Mailbox is a bounded multi-producer, single-consumer queue.
// It is designed for bare-metal use: no allocations after New, no locks, busy-wait with Gosched().
//
// Each slot carries a sequence number, so a consumer never observes a slot that a
// producer has reserved but not yet filled.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	mask  uint32
	head  atomic.Uint32
	tail  atomic.Uint32
	slots []slot[T]
}

// New returns a mailbox holding at least capacity values (rounded up to a power of two).
func New[T any](capacity int) *Mailbox[T] {
	if capacity <= 0 {
		capacity = DefaultMailboxSlots
	}
	n := uint32(1)
	for n < uint32(capacity) {
		n <<= 1
	}
	mb := &Mailbox[T]{mask: n - 1, slots: make([]slot[T], n)}
	for i := range mb.slots {
		mb.slots[i].seq.Store(uint32(i))
	}
	return mb
}

// Cap returns the number of slots.
func (mb *Mailbox[T]) Cap() int { return len(mb.slots) }

// Len returns the number of queued values. It is approximate while producers are active.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
// A full mailbox keeps its older values; v is the one dropped.
func (mb *Mailbox[T]) TrySend(v T) bool {
	for {
		pos := mb.head.Load()
		s := &mb.slots[pos&mb.mask]
		diff := int32(s.seq.Load() - pos)
		switch {
		case diff == 0:
			if mb.head.CompareAndSwap(pos, pos+1) {
				s.val = v
				s.seq.Store(pos + 1)
				return true
			}
		case diff < 0:
			return false
		}
		// Another producer won the slot; retry with the new head.
	}
}

// TryRecv attempts to dequeue one value, returning false if empty.
// Only one goroutine may receive.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	pos := mb.tail.Load()
	s := &mb.slots[pos&mb.mask]
	if s.seq.Load() != pos+1 {
		var zero T
		return zero, false
	}
	v := s.val
	var zero T
	s.val = zero
	s.seq.Store(pos + mb.mask + 1)
	mb.tail.Store(pos + 1)
	return v, true
}
