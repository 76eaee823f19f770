package ffi

import "unsafe"

// Frame is a borrowed, read-only view of one SDK-owned depth frame.
//
// A Frame is valid only for the duration of the callback invocation that
// delivered it; the SDK may reuse or free the backing buffer as soon as the
// callback returns. Code that needs the data afterwards must copy the points
// out during the callback.
type Frame uintptr

// DepthPoint is one pixel's 3D reconstruction with its quality metadata.
type DepthPoint struct {
	// X, Y, Z are Cartesian coordinates in metres.
	X, Y, Z float32
	// Noise is the depth standard deviation estimate in metres.
	Noise float32
	// GrayValue is the 16-bit IR grayscale value.
	GrayValue uint16
	// Confidence ranges from 0 (no return) to 255 (full confidence).
	Confidence uint8
}

// Metadata returns the frame dimensions and its SDK timestamp, a monotonic
// tick count in SDK-defined units (microseconds on current devices).
func (f Frame) Metadata() (width, height uint16, timestamp uint64) {
	royaleFrameMetadata(
		uintptr(f),
		uintptr(unsafe.Pointer(&width)),
		uintptr(unsafe.Pointer(&height)),
		uintptr(unsafe.Pointer(&timestamp)),
	)
	return width, height, timestamp
}

// Point reads the i-th depth point. i must be smaller than width*height;
// the wrapper's underlying sequence is bounds-unchecked.
func (f Frame) Point(i int) DepthPoint {
	var p DepthPoint
	royaleFramePoint(
		uintptr(f),
		uintptr(i),
		uintptr(unsafe.Pointer(&p.X)),
		uintptr(unsafe.Pointer(&p.Y)),
		uintptr(unsafe.Pointer(&p.Z)),
		uintptr(unsafe.Pointer(&p.Noise)),
		uintptr(unsafe.Pointer(&p.GrayValue)),
		uintptr(unsafe.Pointer(&p.Confidence)),
	)
	return p
}
