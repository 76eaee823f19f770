package ffi

import (
	"errors"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
)

// FrameHandler receives one borrowed frame view per delivered frame.
// It is invoked on an SDK-owned thread, serialized per camera. The Frame
// argument must not be retained past the handler's return.
type FrameHandler func(frame Frame)

// Camera owns one SDK camera device together with its registered data
// listener. Created by Attach, released by Close. Configuration calls block
// until the SDK returns; the caller is responsible for serializing them.
type Camera struct {
	camera   uintptr
	listener uintptr
	key      uintptr
	handler  FrameHandler

	mu     sync.Mutex
	closed bool
}

// ErrCameraClosed is returned by operations on a closed Camera.
var ErrCameraClosed = errors.New("camera closed")

// Delivery goes through a single C-callable bridge. The void* payload the
// wrapper passes back verbatim is a registry key, not a Go pointer: Go
// pointers must not cross the boundary, and the key survives camera handle
// reuse by the allocator.
var (
	cameraRegistry   = make(map[uintptr]*Camera)
	cameraRegistryMu sync.RWMutex
	cameraKeys       atomic.Uintptr

	listenerCallbackPtr  uintptr
	listenerCallbackOnce sync.Once
)

// safeCallback wraps a handler invocation with panic recovery. A panic
// unwinding through the SDK's C stack frames would be undefined behavior.
func safeCallback(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[libgoroyale] panic recovered in frame handler: %v", r)
		}
	}()
	fn()
}

// listenerBridge is the C-callable target of every data listener. The
// (handler, key) pair is immutable after Attach, so the only synchronization
// needed here is the registry read.
func listenerBridge(frame uintptr, payload uintptr) {
	cameraRegistryMu.RLock()
	c, ok := cameraRegistry[payload]
	cameraRegistryMu.RUnlock()

	if !ok || c.handler == nil {
		return
	}

	safeCallback(func() {
		c.handler(Frame(frame))
	})
}

func listenerCallback() uintptr {
	listenerCallbackOnce.Do(func() {
		listenerCallbackPtr = purego.NewCallback(listenerBridge)
	})
	return listenerCallbackPtr
}

// Attach connects to the first depth camera the SDK enumerates, initializes
// it and registers a data listener that forwards every frame to handler.
//
// Returns ErrNoDevice when no camera is connected. Whether re-attaching
// immediately after Close is safe without a cool-down is SDK-defined.
func Attach(handler FrameHandler) (*Camera, error) {
	if !libLoaded.Load() {
		return nil, ErrLibraryNotLoaded
	}
	if handler == nil {
		return nil, errors.New("nil frame handler")
	}

	key := cameraKeys.Add(1)
	c := &Camera{key: key, handler: handler}

	cameraRegistryMu.Lock()
	cameraRegistry[key] = c
	cameraRegistryMu.Unlock()

	var cameraPtr, listenerPtr uintptr
	code := royaleCameraAttach(
		listenerCallback(),
		key,
		uintptr(unsafe.Pointer(&cameraPtr)),
		uintptr(unsafe.Pointer(&listenerPtr)),
	)

	if err := cameraError(code); err != nil {
		// The wrapper may have created the device before failing
		// initialization or listener registration.
		if cameraPtr != 0 {
			royaleCameraDelete(cameraPtr, listenerPtr)
		}
		unregisterCamera(key)
		return nil, err
	}

	// The wrapper reports SUCCESS without touching the out-parameters when
	// zero cameras are present. Lift that into a distinct error.
	if cameraPtr == 0 {
		unregisterCamera(key)
		return nil, ErrNoDevice
	}

	c.camera = cameraPtr
	c.listener = listenerPtr
	return c, nil
}

func unregisterCamera(key uintptr) {
	cameraRegistryMu.Lock()
	delete(cameraRegistry, key)
	cameraRegistryMu.Unlock()
}

func (c *Camera) valid() error {
	if c.camera == 0 {
		return ErrCameraClosed
	}
	return nil
}

// UseCases returns the names of the operation presets the connected module
// supports. Non-empty on any initialized device.
func (c *Camera) UseCases() ([]string, error) {
	if err := c.valid(); err != nil {
		return nil, err
	}
	v, err := NewStringVector()
	if err != nil {
		return nil, err
	}
	defer v.Delete()

	if err := cameraError(royaleCameraGetUseCases(c.camera, uintptr(v))); err != nil {
		return nil, err
	}
	return v.Strings(), nil
}

// SetUseCase switches the camera to the named preset.
func (c *Camera) SetUseCase(name string) error {
	if err := c.valid(); err != nil {
		return err
	}
	b := CString(name)
	err := cameraError(royaleCameraSetUseCase(c.camera, uintptr(unsafe.Pointer(&b[0]))))
	runtime.KeepAlive(b)
	return err
}

// MaxFrameRate returns the upper frame-rate bound of the current use case.
func (c *Camera) MaxFrameRate() (uint16, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	var rate uint16
	err := cameraError(royaleCameraGetMaxFrameRate(c.camera, uintptr(unsafe.Pointer(&rate))))
	return rate, err
}

// FrameRate returns the currently configured frame rate.
func (c *Camera) FrameRate() (uint16, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	var rate uint16
	err := cameraError(royaleCameraGetFrameRate(c.camera, uintptr(unsafe.Pointer(&rate))))
	return rate, err
}

// SetFrameRate requests a new frame rate. The SDK rejects rates above
// MaxFrameRate with FRAMERATE_NOT_SUPPORTED.
func (c *Camera) SetFrameRate(rate uint16) error {
	if err := c.valid(); err != nil {
		return err
	}
	return cameraError(royaleCameraSetFrameRate(c.camera, rate))
}

// ExposureMode reports whether the camera is in manual exposure mode.
func (c *Camera) ExposureMode() (manual bool, err error) {
	if err := c.valid(); err != nil {
		return false, err
	}
	var m uint8
	err = cameraError(royaleCameraGetExposureMode(c.camera, uintptr(unsafe.Pointer(&m))))
	return m != 0, err
}

// SetExposureMode switches between manual (true) and automatic exposure.
func (c *Camera) SetExposureMode(manual bool) error {
	if err := c.valid(); err != nil {
		return err
	}
	var m uint8
	if manual {
		m = 1
	}
	return cameraError(royaleCameraSetExposureMode(c.camera, m))
}

// ExposureLimits returns the allowed exposure window of the current use
// case, in the SDK's exposure unit (microseconds). low <= high.
func (c *Camera) ExposureLimits() (low, high uint32, err error) {
	if err := c.valid(); err != nil {
		return 0, 0, err
	}
	err = cameraError(royaleCameraGetExposureLimits(
		c.camera,
		uintptr(unsafe.Pointer(&low)),
		uintptr(unsafe.Pointer(&high)),
	))
	return low, high, err
}

// SetExposureTime sets the exposure time for manual mode. Values outside
// ExposureLimits are rejected by the SDK.
func (c *Camera) SetExposureTime(exposureTime uint32) error {
	if err := c.valid(); err != nil {
		return err
	}
	return cameraError(royaleCameraSetExposureTime(c.camera, exposureTime))
}

// CaptureStart begins the frame stream. Frames arrive on an SDK-owned
// thread through the handler passed to Attach.
func (c *Camera) CaptureStart() error {
	if err := c.valid(); err != nil {
		return err
	}
	return cameraError(royaleCameraCaptureStart(c.camera))
}

// CaptureStop ends the frame stream. After it returns, at most one
// in-flight callback may still complete.
func (c *Camera) CaptureStop() error {
	if err := c.valid(); err != nil {
		return err
	}
	return cameraError(royaleCameraCaptureStop(c.camera))
}

// Close deregisters the listener and releases both handles. The wrapper
// completes deregistration before freeing the listener, so no in-flight
// callback dereferences freed state. Idempotent.
func (c *Camera) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	royaleCameraDelete(c.camera, c.listener)
	unregisterCamera(c.key)
	c.camera = 0
	c.listener = 0
}
