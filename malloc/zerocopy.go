package malloc

import "unsafe"

// bytesToString converts b to a string without copying. Adapted from
// unsafex's BinaryToString helper; used only by DebugString, which
// builds its summary into a scratch []byte and wants to hand it back as
// a string without an extra allocation.
func bytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
