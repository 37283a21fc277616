package malloc

import "unsafe"

// Heap is a single-threaded, monotonically growable dynamic memory
// allocator. It is not safe for concurrent use: callers must ensure at
// most one operation is in flight on a given Heap at a time.
type Heap struct {
	provider    PageProvider
	base        unsafe.Pointer
	root        int
	initialized bool
}

// New creates a Heap backed by the given page provider. The heap is not
// actually initialized (no memory requested from the provider) until
// the first Alloc call.
func New(p PageProvider) *Heap {
	return &Heap{provider: p, root: nullOffset}
}

// init lays down the prologue/epilogue sentinels and performs the first
// heap extension. Returns false if the page provider refuses either
// request.
func (h *Heap) init() bool {
	addr, err := h.provider.Sbrk(2 * wordSize)
	if err != nil {
		return false
	}
	h.base = addr
	h.root = nullOffset

	h.setHeaderAt(0, pack(0, true, true)) // prologue footer (word 0; written via the
	// generic word writer since the prologue has no block size to derive a footer
	// offset from)
	h.setHeaderAt(wordSize, pack(0, true, true)) // epilogue header

	if h.extendHeap(chunkSize) == nullOffset {
		return false
	}
	h.initialized = true
	return true
}

// Alloc returns a pointer to a newly allocated region of at least size
// bytes, or nil if size is 0 or no memory is available. The region is
// not zeroed; see Calloc.
func (h *Heap) Alloc(size uintptr) unsafe.Pointer {
	if !h.initialized {
		if !h.init() {
			return nil
		}
	}
	if size == 0 {
		return nil
	}

	asize := adjustedSize(size)
	off := h.findFit(asize)
	if off == nullOffset {
		grow := asize
		if grow < chunkSize {
			grow = chunkSize
		}
		off = h.extendHeap(int(grow))
		if off == nullOffset {
			return nil
		}
	}

	h.place(off, asize)
	return h.payloadPtr(off)
}

// Release returns ptr, previously obtained from Alloc/Resize/Calloc on
// this Heap, to the allocator. Releasing nil is a no-op. Releasing a
// pointer this Heap did not hand out, or releasing it twice, is a caller
// bug that corrupts the heap; it is not detected here (see Check).
func (h *Heap) Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	off := h.offsetOfPayload(ptr)
	w := h.headerAt(off)
	size := sizeOf(w)
	h.setHeaderAt(off, pack(size, false, prevAllocOf(w)))
	h.setFooterAt(off, size, pack(size, false, false))
	h.coalesce(off)
}

// Resize returns a pointer to a region of at least size bytes whose
// leading min(size, old payload size) bytes equal ptr's, and releases
// ptr. If size is 0, it releases ptr and returns nil. If ptr is nil, it
// behaves like Alloc(size). There is no in-place shrink or
// neighbor-absorbing growth: Resize always allocates fresh and copies.
func (h *Heap) Resize(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if size == 0 {
		h.Release(ptr)
		return nil
	}
	if ptr == nil {
		return h.Alloc(size)
	}

	off := h.offsetOfPayload(ptr)
	oldPayloadSize := sizeOf(h.headerAt(off)) - wordSize

	q := h.Alloc(size)
	if q == nil {
		return nil
	}

	n := uintptr(oldPayloadSize)
	if size < n {
		n = size
	}
	if n > 0 {
		src := unsafe.Slice((*byte)(ptr), n)
		dst := unsafe.Slice((*byte)(q), n)
		copy(dst, src)
	}

	h.Release(ptr)
	return q
}

// Calloc allocates room for nmemb elements of size bytes each and zeroes
// the result. Returns nil if the multiplication overflows or the
// underlying Alloc fails.
func (h *Heap) Calloc(nmemb, size uintptr) unsafe.Pointer {
	if nmemb == 0 || size == 0 {
		return h.Alloc(0)
	}
	total := nmemb * size
	if total/nmemb != size {
		return nil
	}
	p := h.Alloc(total)
	if p == nil {
		return nil
	}
	buf := unsafe.Slice((*byte)(p), total)
	for i := range buf {
		buf[i] = 0
	}
	return p
}

// Available returns the total free payload bytes currently reclaimable
// without growing the heap, computed by walking the entire free list
// (not subject to the fitSearchCap).
func (h *Heap) Available() uintptr {
	if !h.initialized {
		return 0
	}
	var total uintptr
	for off := h.root; off != nullOffset; off = h.flNext(off) {
		total += uintptr(sizeOf(h.headerAt(off)) - wordSize)
	}
	return total
}
