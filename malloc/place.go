package malloc

// place carves an asize-byte allocation out of the free block at off,
// which must currently be free with size(off) >= asize. If the leftover
// remainder is at least minBlockSize, it is split off as a new free
// block and inserted into the free list; otherwise the whole block is
// handed to the caller. In both cases off is removed from the free list
// first, then placed.
func (h *Heap) place(off int, asize uint64) {
	csize := sizeOf(h.headerAt(off))
	h.listRemove(off)

	if csize-asize >= minBlockSize {
		h.setHeaderAt(off, pack(asize, true, true))

		remOff := h.nextOffset(off)
		remSize := csize - asize
		h.setHeaderAt(remOff, pack(remSize, false, true))
		h.setFooterAt(remOff, remSize, pack(remSize, false, false))
		h.listInsert(remOff)
		return
	}

	h.setHeaderAt(off, pack(csize, true, true))
	nextOff := h.nextOffset(off)
	h.setHeaderAt(nextOff, withPrevAlloc(h.headerAt(nextOff), true))
}
