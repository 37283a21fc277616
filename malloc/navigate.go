package malloc

import "unsafe"

// nullOffset stands in for a NULL block reference. Offset 0 is
// permanently the prologue footer, so it is never a valid block address
// and is safe to reuse as the "no block" sentinel.
const nullOffset = -1

// wordAt returns a pointer to the 8-byte word at the given arena offset.
func (h *Heap) wordAt(off int) *uint64 {
	return (*uint64)(unsafe.Add(h.base, off))
}

func (h *Heap) headerAt(off int) uint64 {
	return *h.wordAt(off)
}

func (h *Heap) setHeaderAt(off int, w uint64) {
	*h.wordAt(off) = w
}

// footerAt reads the footer word of a free block, stored at the last
// word of the block (off + size - wordSize).
func (h *Heap) footerAt(off int) uint64 {
	size := sizeOf(h.headerAt(off))
	return *h.wordAt(off + int(size) - wordSize)
}

func (h *Heap) setFooterAt(off int, size uint64, w uint64) {
	*h.wordAt(off+int(size)-wordSize) = w
}

// nextOffset returns the offset of the block physically following the
// one at off. Valid whenever the block at off is not the epilogue.
func (h *Heap) nextOffset(off int) int {
	return off + int(sizeOf(h.headerAt(off)))
}

// prevOffset returns the offset of the block physically preceding the
// one at off. Only safe to call when prevAllocOf(header(off)) is false:
// an allocated predecessor has no footer to read.
func (h *Heap) prevOffset(off int) int {
	footer := *h.wordAt(off - wordSize)
	return off - int(sizeOf(footer))
}

// payloadPtr returns the user-visible payload address of the block at off.
func (h *Heap) payloadPtr(off int) unsafe.Pointer {
	return unsafe.Add(h.base, off+wordSize)
}

// offsetOfPayload is the inverse of payloadPtr: given a payload pointer,
// returns the offset of its owning block's header.
func (h *Heap) offsetOfPayload(p unsafe.Pointer) int {
	return int(uintptr(p)-uintptr(h.base)) - wordSize
}

func (h *Heap) offsetOf(p unsafe.Pointer) int {
	return int(uintptr(p) - uintptr(h.base))
}
