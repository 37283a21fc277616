package malloc

import (
	"strconv"

	"github.com/heapkit/heapalloc/malloc/internal/bitwalk"
)

// Check audits the heap's invariants and reports whether they all hold.
// It is intended to be asserted at call sites in debug builds rather
// than run unconditionally on a hot path. The checks run in order:
//
//  1. prologue and epilogue sentinels are well-formed and in place.
//  2. every block on the heap walk is in-bounds, correctly aligned, of
//     legal size, and no two physically adjacent blocks are both free.
//  3. the free-block count from the heap walk matches the free list's
//     own length.
//  4. every next/prev pointer encountered in the free list is in-bounds.
//
// On top of the spec's four checks, Check also marks each block's byte
// range in a scratch occupancy bitmap as it walks the heap; two blocks
// whose ranges overlap there indicates heap corruption that a pointer
// chase alone can miss (a corrupted size field can still produce a
// chain that happens to terminate at size 0).
func (h *Heap) Check() bool {
	if !h.initialized {
		return true
	}

	lo := h.offsetOf(h.provider.HeapLo())
	hi := h.offsetOf(h.provider.HeapHi())

	prologueWord := h.headerAt(lo)
	epilogueOff := hi - wordSize
	epilogueWord := h.headerAt(epilogueOff)
	if sizeOf(prologueWord) != 0 || !allocOf(prologueWord) {
		return false
	}
	if sizeOf(epilogueWord) != 0 || !allocOf(epilogueWord) {
		return false
	}

	occupied := bitwalk.New(hi - lo)
	freeOnWalk := 0
	prevWasFree := false

	off := wordSize
	for {
		size := sizeOf(h.headerAt(off))
		if size == 0 {
			break // epilogue
		}
		if off < lo || off+int(size) > hi {
			return false
		}
		if (off+wordSize)%dsize != 0 {
			return false
		}
		if size < minBlockSize || size%dsize != 0 {
			return false
		}
		if occupied.MarkRange(off, int(size)) {
			return false
		}

		isFree := !allocOf(h.headerAt(off))
		if isFree {
			if prevWasFree {
				return false
			}
			freeOnWalk++
		}
		prevWasFree = isFree

		off = h.nextOffset(off)
	}

	listLen := 0
	for n := h.root; n != nullOffset; n = h.flNext(n) {
		if n < lo || n >= hi {
			return false
		}
		if p := h.flPrev(n); p != nullOffset && (p < lo || p >= hi) {
			return false
		}
		listLen++
		if listLen > freeOnWalk+1 {
			return false // list longer than the heap walk can justify; would never terminate cleanly
		}
	}

	return listLen == freeOnWalk
}

// DebugString renders a compact block-by-block summary of the heap,
// for use in manual debugging sessions. Not part of the correctness
// surface.
func (h *Heap) DebugString() string {
	if !h.initialized {
		return "<uninitialized heap>"
	}
	buf := make([]byte, 0, 256)
	off := wordSize
	for {
		w := h.headerAt(off)
		size := sizeOf(w)
		if size == 0 {
			buf = append(buf, "[epilogue]"...)
			break
		}
		buf = append(buf, '[')
		if allocOf(w) {
			buf = append(buf, "alloc "...)
		} else {
			buf = append(buf, "free "...)
		}
		buf = strconv.AppendUint(buf, size, 10)
		buf = append(buf, "] "...)
		off = h.nextOffset(off)
	}
	return bytesToString(buf)
}
