// Package depth provides owned representations of time-of-flight depth
// frames: per-pixel 3D points with confidence and noise metadata, plus
// rendering and summary statistics over them.
//
// Unlike the borrowed frame views delivered by the SDK callback, a
// depth.Frame owns its storage and may be retained, sent between goroutines
// and processed after the delivering callback has returned.
package depth

import (
	"fmt"
	"time"
)

// Point is one pixel's 3D reconstruction in object space.
type Point struct {
	// X, Y, Z are Cartesian coordinates in metres.
	X, Y, Z float32
	// Noise is the depth standard deviation estimate in metres.
	Noise float32
	// Confidence ranges from 0 (no return) to 255 (full confidence).
	Confidence uint8
}

// Frame is one captured depth frame. Points and Gray are row-major,
// Width*Height long.
type Frame struct {
	Points    []Point
	Gray      []uint16
	Timestamp time.Duration
	Width     uint16
	Height    uint16
}

// New builds a frame from raw data. len(points) and len(gray) must equal
// width*height.
func New(points []Point, gray []uint16, timestamp time.Duration, width, height uint16) (*Frame, error) {
	total := int(width) * int(height)
	if len(points) != total {
		return nil, fmt.Errorf("depth: %d points for %dx%d frame", len(points), width, height)
	}
	if len(gray) != total {
		return nil, fmt.Errorf("depth: %d gray values for %dx%d frame", len(gray), width, height)
	}
	return &Frame{Points: points, Gray: gray, Timestamp: timestamp, Width: width, Height: height}, nil
}

// Len returns the number of points in the frame.
func (f *Frame) Len() int {
	return len(f.Points)
}

// At returns the point at pixel (x, y).
func (f *Frame) At(x, y int) Point {
	return f.Points[y*int(f.Width)+x]
}

// GrayAt returns the 16-bit IR grayscale value at pixel (x, y).
func (f *Frame) GrayAt(x, y int) uint16 {
	return f.Gray[y*int(f.Width)+x]
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	points := make([]Point, len(f.Points))
	copy(points, f.Points)
	gray := make([]uint16, len(f.Gray))
	copy(gray, f.Gray)
	return &Frame{Points: points, Gray: gray, Timestamp: f.Timestamp, Width: f.Width, Height: f.Height}
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame{%dx%d @ %v}", f.Width, f.Height, f.Timestamp)
}
