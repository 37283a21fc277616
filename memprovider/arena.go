// Package memprovider implements the page-provider collaborator that
// backs a malloc.Heap: a single contiguous region that can only grow,
// and whose addresses, once handed out, stay valid for the provider's
// lifetime.
package memprovider

import (
	"fmt"
	"unsafe"
)

// Arena is a malloc.PageProvider backed by one pre-allocated []byte. It
// never reallocates or moves that backing array; growth only advances a
// logical high-water mark within it, the same "arena []byte plus a
// cached unsafe.Pointer to its start" shape used by a buddy or bitmap
// allocator's own backing store, generalized here into a standalone,
// growable-within-a-fixed-ceiling provider.
type Arena struct {
	buf   []byte
	base  unsafe.Pointer
	brk   int // current logical high offset into buf
	limit int // hard ceiling: len(buf)
}

// NewArena creates an Arena able to grow up to maxBytes before Sbrk
// starts failing. maxBytes must be positive.
func NewArena(maxBytes int) (*Arena, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("memprovider: maxBytes must be positive, got %d", maxBytes)
	}
	buf := make([]byte, maxBytes)
	return &Arena{
		buf:   buf,
		base:  unsafe.Pointer(&buf[0]),
		limit: maxBytes,
	}, nil
}

// Sbrk grows the arena by n bytes and returns the address of the new
// span (the previous high boundary). Returns an error if n is negative
// or the request would exceed the arena's maxBytes ceiling.
func (a *Arena) Sbrk(n int) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, fmt.Errorf("memprovider: negative Sbrk request %d", n)
	}
	if a.brk+n > a.limit {
		return nil, fmt.Errorf("memprovider: out of memory: brk=%d n=%d limit=%d", a.brk, n, a.limit)
	}
	old := a.brk
	a.brk += n
	return unsafe.Add(a.base, old), nil
}

// HeapLo returns the arena's fixed base address.
func (a *Arena) HeapLo() unsafe.Pointer {
	return a.base
}

// HeapHi returns one byte past the current high-water mark.
func (a *Arena) HeapHi() unsafe.Pointer {
	return unsafe.Add(a.base, a.brk)
}

// Len returns the number of bytes currently committed by Sbrk calls.
func (a *Arena) Len() int {
	return a.brk
}

// Cap returns the arena's maxBytes ceiling.
func (a *Arena) Cap() int {
	return a.limit
}
