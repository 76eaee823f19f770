package ffi

import "unsafe"

// GoString copies a null-terminated C string into a Go string.
func GoString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

// GoStringAndFree copies a wrapper-allocated C string and releases it via
// delete_string. Heap strings returned by the wrapper are owned by the
// caller, so every one of them must come through here exactly once.
func GoStringAndFree(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	s := GoString(ptr)
	royaleDeleteString(ptr)
	return s
}

// CString allocates a null-terminated byte slice from a Go string.
// The caller must keep the returned slice alive for the duration of the
// C call (runtime.KeepAlive).
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	b[len(s)] = 0
	return b
}
