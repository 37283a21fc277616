package malloc

// chunkSize is the default growth increment requested from the page
// provider when no free block fits a request.
const chunkSize = 2048

// extendHeap grows the backing heap region by at least bytes, installs a
// header/footer on the new span, re-creates the terminal epilogue
// sentinel, and forwards the new block to the coalescer (in case the
// block immediately preceding the old epilogue was free). Returns
// nullOffset if the page provider refuses the request.
func (h *Heap) extendHeap(bytes int) int {
	bytes = int(roundUp(uint64(bytes), dsize))

	oldEpilogueOff := h.offsetOf(h.provider.HeapHi()) - wordSize
	prevAlloc := prevAllocOf(h.headerAt(oldEpilogueOff))

	addr, err := h.provider.Sbrk(bytes)
	if err != nil {
		return nullOffset
	}
	// The new block's header reuses the word that used to be the
	// epilogue: addr is the old heap-high boundary, one word past
	// oldEpilogueOff, so the header goes at addr-wordSize rather than
	// at addr itself. Writing it at addr would leave the new footer and
	// the relocated epilogue colliding on the same word.
	newOff := h.offsetOf(addr) - wordSize

	h.setHeaderAt(newOff, pack(uint64(bytes), false, prevAlloc))
	h.setFooterAt(newOff, uint64(bytes), pack(uint64(bytes), false, false))

	epilogueOff := h.offsetOf(h.provider.HeapHi()) - wordSize
	h.setHeaderAt(epilogueOff, pack(0, true, false))

	return h.coalesce(newOff)
}
