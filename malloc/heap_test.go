package malloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapalloc/memprovider"
)

func newTestHeap(t *testing.T, maxBytes int) *Heap {
	t.Helper()
	a, err := memprovider.NewArena(maxBytes)
	require.NoError(t, err)
	return New(a)
}

func isAligned(p unsafe.Pointer, n uintptr) bool {
	return uintptr(p)%n == 0
}

func writePattern(p unsafe.Pointer, n int, seed byte) {
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
}

func checkPattern(t *testing.T, p unsafe.Pointer, n int, seed byte) {
	t.Helper()
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		assert.Equal(t, seed+byte(i), buf[i], "byte %d", i)
	}
}

// S1
func TestScenarioAllocSmall(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(24)
	require.NotNil(t, p)
	assert.True(t, isAligned(p, dsize))
	assert.True(t, h.Check())
}

// S2
func TestScenarioReuseAfterCoalesce(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(2000)
	require.NotNil(t, p)
	h.Release(p)
	q := h.Alloc(2000)
	require.NotNil(t, q)
	assert.Equal(t, p, q)
	assert.True(t, h.Check())
}

// S3
func TestScenarioCoalesceAdjacentFrees(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	a := h.Alloc(100)
	b := h.Alloc(100)
	require.NotNil(t, a)
	require.NotNil(t, b)
	h.Release(a)
	h.Release(b)
	c := h.Alloc(200)
	require.NotNil(t, c)

	aStart := uintptr(a) - wordSize
	bBlockSize := uintptr(adjustedSize(100))
	span := aStart + bBlockSize*2 // a's block followed immediately by b's block
	cStart := uintptr(c) - wordSize
	assert.True(t, cStart >= aStart && cStart < span, "c must lie within the span originally covering a and b")
	assert.True(t, h.Check())
}

// S4
func TestScenarioPartialFreeThenGrow(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	a := h.Alloc(24)
	b := h.Alloc(24)
	require.NotNil(t, a)
	require.NotNil(t, b)
	h.Release(a)
	c := h.Alloc(2040)
	require.NotNil(t, c)
	assert.True(t, h.Check())
}

// S5
func TestScenarioResizeRoundTrip(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(8)
	require.NotNil(t, p)
	writePattern(p, 8, 1)
	q := h.Resize(p, 64)
	require.NotNil(t, q)
	assert.True(t, isAligned(q, dsize))
	checkPattern(t, q, 8, 1)
	h.Release(q)
	assert.True(t, h.Check())
}

// S6
func TestScenarioZeroAlloc(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Calloc(10, 16)
	require.NotNil(t, p)
	buf := unsafe.Slice((*byte)(p), 160)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}

	q := h.Calloc(^uintptr(0), 2)
	assert.Nil(t, q)
}

func TestAllocZeroReturnsNil(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	assert.Nil(t, h.Alloc(0))
}

func TestAllocHeapGrowsInChunks(t *testing.T) {
	a, err := memprovider.NewArena(1 << 20)
	require.NoError(t, err)
	h := New(a)
	p := h.Alloc(24)
	require.NotNil(t, p)
	assert.Equal(t, 2*wordSize+chunkSize, a.Len())
}

func TestReleaseNilIsNoop(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	assert.NotPanics(t, func() { h.Release(nil) })
}

func TestResizeNilDelegatesToAlloc(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Resize(nil, 100)
	require.NotNil(t, p)
	assert.True(t, h.Check())
}

func TestResizeZeroReleases(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(100)
	require.NotNil(t, p)
	q := h.Resize(p, 0)
	assert.Nil(t, q)
	assert.True(t, h.Check())
}

func TestResizeGrowCopiesPrefix(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(100)
	require.NotNil(t, p)
	writePattern(p, 100, 7)
	q := h.Resize(p, 500)
	require.NotNil(t, q)
	checkPattern(t, q, 100, 7)
}

func TestResizeShrinkCopiesTruncated(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(500)
	require.NotNil(t, p)
	writePattern(p, 500, 3)
	q := h.Resize(p, 10)
	require.NotNil(t, q)
	checkPattern(t, q, 10, 3)
}

func TestOutOfMemoryReturnsNilAndStaysConsistent(t *testing.T) {
	h := newTestHeap(t, 4096)
	var blocks []unsafe.Pointer
	for {
		p := h.Alloc(256)
		if p == nil {
			break
		}
		blocks = append(blocks, p)
	}
	assert.True(t, h.Check())
	for _, b := range blocks {
		h.Release(b)
	}
	assert.True(t, h.Check())
}

func TestAvailableAccounting(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	p := h.Alloc(1000)
	require.NotNil(t, p)
	before := h.Available()
	h.Release(p)
	after := h.Available()
	// the released block merges with the free remainder after it, so the
	// remainder's header word also becomes payload: the gain is the whole
	// released block size.
	assert.Equal(t, before+uintptr(adjustedSize(1000)), after)
}
