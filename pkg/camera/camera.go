// Package camera provides the public API for pmd Royale time-of-flight depth
// cameras: attachment, use-case and exposure configuration, capture
// lifecycle, and delivery of owned depth frames.
//
// The package wraps the camera device and its SDK data listener in a single
// handle, so one Close releases both in the order the SDK requires.
package camera

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thesyncim/libgoroyale/internal/ffi"
	"github.com/thesyncim/libgoroyale/pkg/depth"
)

// Error sentinels, re-exported from the binding layer for errors.Is.
var (
	// ErrNoDevice is returned by Attach when no depth camera is connected.
	ErrNoDevice = ffi.ErrNoDevice

	// ErrClosed is returned by operations on a closed Camera.
	ErrClosed = ffi.ErrCameraClosed

	ErrDisconnected             = ffi.ErrDisconnected
	ErrInvalidValue             = ffi.ErrInvalidValue
	ErrTimeout                  = ffi.ErrTimeout
	ErrDeviceBusy               = ffi.ErrDeviceBusy
	ErrNotInitialized           = ffi.ErrNotInitialized
	ErrUseCaseNotSupported      = ffi.ErrUseCaseNotSupported
	ErrFrameRateNotSupported    = ffi.ErrFrameRateNotSupported
	ErrExposureTimeNotSupported = ffi.ErrExposureTimeNotSupported
	ErrUnsupportedOperation     = ffi.ErrUnsupportedOperation
)

// LoadLibrary loads the libroyale_wrapper shared library. It must succeed
// before Attach can be called. See the internal binding layer for the
// search order (ROYALE_WRAPPER_PATH, lib/{os}_{arch}/, system paths).
func LoadLibrary() error { return ffi.LoadLibrary() }

// MustLoadLibrary loads the wrapper library and panics on failure.
func MustLoadLibrary() { ffi.MustLoadLibrary() }

// device is the surface pkg tests fake out; *ffi.Camera implements it.
type device interface {
	UseCases() ([]string, error)
	SetUseCase(name string) error
	MaxFrameRate() (uint16, error)
	FrameRate() (uint16, error)
	SetFrameRate(rate uint16) error
	ExposureMode() (manual bool, err error)
	SetExposureMode(manual bool) error
	ExposureLimits() (low, high uint32, err error)
	SetExposureTime(exposureTime uint32) error
	CaptureStart() error
	CaptureStop() error
	Close()
}

var attachDevice = func(onFrame func(*depth.Frame)) (device, error) {
	return ffi.Attach(func(v ffi.Frame) {
		onFrame(copyFrame(v))
	})
}

// frameView is the borrowed-view surface copyFrame reads.
type frameView interface {
	Metadata() (width, height uint16, timestamp uint64)
	Point(i int) ffi.DepthPoint
}

// copyFrame copies one borrowed SDK frame into owned storage. It runs
// inside the delivering callback, the only window in which the view is
// valid.
func copyFrame(v frameView) *depth.Frame {
	width, height, timestamp := v.Metadata()
	total := int(width) * int(height)
	points := make([]depth.Point, total)
	gray := make([]uint16, total)
	for i := 0; i < total; i++ {
		p := v.Point(i)
		points[i] = depth.Point{X: p.X, Y: p.Y, Z: p.Z, Noise: p.Noise, Confidence: p.Confidence}
		gray[i] = p.GrayValue
	}
	f, _ := depth.New(points, gray, time.Duration(timestamp)*time.Microsecond, width, height)
	return f
}

// Camera is an attached depth camera. Obtain one with Attach; release it
// with Close. Configuration calls block until the SDK returns and must be
// serialized by the caller; frame delivery runs concurrently on an
// SDK-owned thread.
type Camera struct {
	dev     device
	handler func(*depth.Frame)
	frames  chan *depth.Frame
	dropped atomic.Uint64

	closeOnce sync.Once
}

// Option configures Attach.
type Option func(*config)

type config struct {
	handler func(*depth.Frame)
	buffer  int
}

// WithFrameHandler delivers every frame to fn instead of the Frames
// channel. fn runs on the SDK's delivery thread and must not block; a slow
// handler stalls the camera's frame stream.
func WithFrameHandler(fn func(*depth.Frame)) Option {
	return func(c *config) { c.handler = fn }
}

// WithBufferSize sets the Frames channel capacity (default 16). When the
// consumer falls behind and the buffer is full, new frames are dropped and
// counted rather than stalling the SDK thread.
func WithBufferSize(n int) Option {
	return func(c *config) { c.buffer = n }
}

// Attach connects to the first depth camera the SDK enumerates, initializes
// it and registers a frame listener. Returns ErrNoDevice when no camera is
// connected.
//
// Whether re-attaching immediately after Close is safe without a cool-down
// is SDK-defined.
func Attach(opts ...Option) (*Camera, error) {
	cfg := config{buffer: 16}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.buffer < 1 {
		cfg.buffer = 1
	}

	c := &Camera{
		handler: cfg.handler,
		frames:  make(chan *depth.Frame, cfg.buffer),
	}

	dev, err := attachDevice(c.onFrame)
	if err != nil {
		return nil, err
	}
	c.dev = dev
	return c, nil
}

func (c *Camera) onFrame(f *depth.Frame) {
	if c.handler != nil {
		c.handler(f)
		return
	}
	select {
	case c.frames <- f:
	default:
		c.dropped.Add(1)
	}
}

// Frames returns the channel frames are delivered on while capturing.
// Closed by Close. Unused when WithFrameHandler was given.
func (c *Camera) Frames() <-chan *depth.Frame {
	return c.frames
}

// Recv blocks until the next frame, the context is done, or the camera is
// closed.
func (c *Camera) Recv(ctx context.Context) (*depth.Frame, error) {
	select {
	case f, ok := <-c.frames:
		if !ok {
			return nil, ErrClosed
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dropped returns the number of frames discarded because the Frames buffer
// was full.
func (c *Camera) Dropped() uint64 {
	return c.dropped.Load()
}

// UseCases returns the names of the operation presets the connected module
// supports.
func (c *Camera) UseCases() ([]string, error) { return c.dev.UseCases() }

// SetUseCase switches the camera to the named preset. Switching may clamp
// the configured frame rate and exposure window to the preset's limits.
func (c *Camera) SetUseCase(name string) error { return c.dev.SetUseCase(name) }

// MaxFrameRate returns the upper frame-rate bound of the current use case.
func (c *Camera) MaxFrameRate() (uint16, error) { return c.dev.MaxFrameRate() }

// FrameRate returns the currently configured frame rate.
func (c *Camera) FrameRate() (uint16, error) { return c.dev.FrameRate() }

// SetFrameRate requests a new frame rate, at most MaxFrameRate.
func (c *Camera) SetFrameRate(rate uint16) error { return c.dev.SetFrameRate(rate) }

// ExposureMode reports whether the camera is in manual exposure mode.
func (c *Camera) ExposureMode() (bool, error) { return c.dev.ExposureMode() }

// SetExposureMode switches between manual (true) and automatic exposure.
func (c *Camera) SetExposureMode(manual bool) error { return c.dev.SetExposureMode(manual) }

// ExposureLimits returns the allowed exposure window of the current use
// case in microseconds, low <= high.
func (c *Camera) ExposureLimits() (low, high uint32, err error) { return c.dev.ExposureLimits() }

// SetExposureTime sets the manual exposure time in microseconds, inside
// ExposureLimits.
func (c *Camera) SetExposureTime(exposureTime uint32) error {
	return c.dev.SetExposureTime(exposureTime)
}

// CaptureStart begins the frame stream.
func (c *Camera) CaptureStart() error { return c.dev.CaptureStart() }

// CaptureStop ends the frame stream. After it returns, at most one
// in-flight frame may still be delivered.
func (c *Camera) CaptureStop() error { return c.dev.CaptureStop() }

// Close deregisters the listener, releases the device and closes the
// Frames channel. The SDK completes listener deregistration before the
// release returns, so no frame is delivered after Close. Idempotent.
func (c *Camera) Close() {
	c.closeOnce.Do(func() {
		c.dev.Close()
		close(c.frames)
	})
}
