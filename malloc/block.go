package malloc

// A block's metadata word packs three fields into a single 8-byte word:
// the block size in bits [63:4] and two flag bits in [1:0]. Size is
// always a multiple of dsize (16), so its low 4 bits are free for flags.
//
//	bit 0: this_allocated
//	bit 1: prev_allocated (allocation state of the physically preceding block)
//	bits [3:2]: reserved, always 0
//	bits [63:4]: size
const (
	wordSize = 8  // W: size of a header or footer word
	dsize    = 16 // D: payload alignment and minimum size granularity

	minBlockSize = 2 * dsize // smallest legal block: room for free-list next+prev

	allocBit     uint64 = 1
	prevAllocBit uint64 = 2
	sizeMask     uint64 = ^uint64(0xF)
)

// pack encodes size, alloc and prevAlloc into a header/footer word.
// size must already be a multiple of dsize.
func pack(size uint64, alloc, prevAlloc bool) uint64 {
	w := size & sizeMask
	if alloc {
		w |= allocBit
	}
	if prevAlloc {
		w |= prevAllocBit
	}
	return w
}

func sizeOf(w uint64) uint64 {
	return w & sizeMask
}

func allocOf(w uint64) bool {
	return w&allocBit != 0
}

func prevAllocOf(w uint64) bool {
	return w&prevAllocBit != 0
}

// withPrevAlloc returns w with its prev_allocated bit set or cleared,
// leaving size and this_allocated untouched.
func withPrevAlloc(w uint64, prevAlloc bool) uint64 {
	if prevAlloc {
		return w | prevAllocBit
	}
	return w &^ prevAllocBit
}

// roundUp rounds size up to the next multiple of n. n must be a power of two.
func roundUp(size, n uint64) uint64 {
	return (size + n - 1) &^ (n - 1)
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// adjustedSize computes the block size needed to service a payload
// request of n bytes: room for the header, rounded up to double-word
// alignment, floored at the minimum block size.
func adjustedSize(n uintptr) uint64 {
	return maxU64(roundUp(uint64(n)+wordSize, dsize), minBlockSize)
}
