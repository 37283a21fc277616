package malloc

// The free list is doubly linked and threaded through the payload bytes
// of free blocks only: next at payload offset 0, prev at payload offset
// wordSize. Both are stored as arena offsets (int), not raw pointers —
// the arena is a plain []byte, so values living inside it are invisible
// to the Go garbage collector's pointer scan, and a stored offset is
// resolved back to an address only at the point of use. This mirrors a
// buddy allocator keeping its free lists as offsets (freeLists
// [][]int) rather than pointers, generalized here to live inside the
// arena itself instead of a side Go slice.
//
// root == nullOffset iff the list is empty. root's prev is always
// nullOffset.

func (h *Heap) flNext(off int) int {
	return int(int64(*h.wordAt(off + wordSize*1)))
}

func (h *Heap) flSetNext(off int, v int) {
	*h.wordAt(off + wordSize*1) = uint64(int64(v))
}

func (h *Heap) flPrev(off int) int {
	return int(int64(*h.wordAt(off + wordSize*2)))
}

func (h *Heap) flSetPrev(off int, v int) {
	*h.wordAt(off + wordSize*2) = uint64(int64(v))
}

// listInsert head-inserts the free block at off.
func (h *Heap) listInsert(off int) {
	if h.root == off {
		return
	}
	h.flSetNext(off, h.root)
	if h.root != nullOffset {
		h.flSetPrev(h.root, off)
	}
	h.root = off
	h.flSetPrev(off, nullOffset)
}

// listRemove splices the free block at off out of the list.
func (h *Heap) listRemove(off int) {
	if off == h.root {
		h.root = h.flNext(off)
		if h.root != nullOffset {
			h.flSetPrev(h.root, nullOffset)
		}
		return
	}
	prev := h.flPrev(off)
	next := h.flNext(off)
	h.flSetNext(prev, next)
	if next != nullOffset {
		h.flSetPrev(next, prev)
	}
}
