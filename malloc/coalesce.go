package malloc

// coalesce merges the free block at off with its immediate physical
// neighbors, if they are free, and returns the offset of the resulting
// free block. The block at off must already carry a correctly written
// free header and footer before this is called. Coalescing is eager: no
// two physically adjacent blocks are ever both free, at any point
// observable between operations, unlike a buddy allocator, which can
// defer coalescing until a later allocation fails to find a fit, since
// its blocks merge pairwise at fixed size classes. Boundary-tag
// coalescing has no such shortcut, so this allocator folds the merge
// into every free and every extension.
func (h *Heap) coalesce(off int) int {
	nextOff := h.nextOffset(off)
	prevAlloc := prevAllocOf(h.headerAt(off))
	nextAlloc := allocOf(h.headerAt(nextOff))
	size := sizeOf(h.headerAt(off))

	switch {
	case prevAlloc && nextAlloc:
		h.setHeaderAt(nextOff, withPrevAlloc(h.headerAt(nextOff), false))
		h.listInsert(off)
		return off

	case prevAlloc && !nextAlloc:
		h.listRemove(nextOff)
		size += sizeOf(h.headerAt(nextOff))
		h.setHeaderAt(off, pack(size, false, true))
		h.setFooterAt(off, size, pack(size, false, false))
		h.listInsert(off)
		return off

	case !prevAlloc && nextAlloc:
		prevOff := h.prevOffset(off)
		h.listRemove(prevOff)
		size += sizeOf(h.headerAt(prevOff))
		h.setHeaderAt(prevOff, pack(size, false, true))
		h.setFooterAt(prevOff, size, pack(size, false, false))
		h.setHeaderAt(nextOff, withPrevAlloc(h.headerAt(nextOff), false))
		h.listInsert(prevOff)
		return prevOff

	default: // !prevAlloc && !nextAlloc
		prevOff := h.prevOffset(off)
		h.listRemove(prevOff)
		h.listRemove(nextOff)
		size += sizeOf(h.headerAt(prevOff)) + sizeOf(h.headerAt(nextOff))
		h.setHeaderAt(prevOff, pack(size, false, true))
		h.setFooterAt(prevOff, size, pack(size, false, false))
		h.listInsert(prevOff)
		return prevOff
	}
}
