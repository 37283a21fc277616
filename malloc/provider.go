package malloc

import "unsafe"

// PageProvider is the lower-level collaborator that backs the heap with
// real memory. Sbrk must never move or invalidate memory it has
// previously returned, and the heap it backs can only grow: there is no
// shrink operation. A concrete implementation lives in package
// memprovider.
type PageProvider interface {
	// Sbrk grows the heap by n bytes and returns the address of the new
	// span (the previous high boundary). It returns an error if the
	// provider cannot satisfy the request.
	Sbrk(n int) (unsafe.Pointer, error)
	// HeapLo returns the lowest address ever handed out. Constant
	// across calls.
	HeapLo() unsafe.Pointer
	// HeapHi returns one byte past the highest address currently backed
	// by the provider. Advances after every successful Sbrk.
	HeapHi() unsafe.Pointer
}
