package ffi

import (
	"sync"
	"testing"
	"unsafe"
)

// fakeSDK substitutes every wrapper function variable with an in-process
// simulation of one attached camera, so the attach/config/delivery paths can
// be exercised without the native library or hardware.
type fakeSDK struct {
	mu sync.Mutex

	// Simulated device state.
	connected    bool
	useCases     []string
	useCase      string
	frameRate    uint16
	maxFrameRate uint16
	manual       bool
	exposureLow  uint32
	exposureHigh uint32
	exposureTime uint32
	capturing    bool
	attachStatus int32 // forced camera_attach return, 0 = SUCCESS

	// Observed interactions.
	callback     uintptr
	payload      uintptr
	deleted      bool
	deleteCamera uintptr
	deleteListen uintptr

	// Simulated heap.
	frames     map[uintptr]*fakeFrame
	nextFrame  uintptr
	strings    map[uintptr][]byte
	nextString uintptr
	vectors    map[uintptr][]string
	nextVector uintptr
	liveUnfree int
}

type fakeFrame struct {
	width, height uint16
	timestamp     uint64
	points        []DepthPoint
}

const (
	fakeCameraPtr   uintptr = 0xC0FFEE
	fakeListenerPtr uintptr = 0xBEEF
)

func (f *fakeSDK) newString(s string) uintptr {
	b := append([]byte(s), 0)
	f.nextString++
	ptr := uintptr(unsafe.Pointer(&b[0]))
	f.strings[ptr] = b // pin
	f.liveUnfree++
	return ptr
}

// addFrame registers a synthetic frame and returns its handle.
func (f *fakeSDK) addFrame(width, height uint16, timestamp uint64, points []DepthPoint) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextFrame++
	handle := 0xF000 + f.nextFrame
	f.frames[handle] = &fakeFrame{width: width, height: height, timestamp: timestamp, points: points}
	return handle
}

// uniformFrame builds a width x height frame whose points all carry the
// same depth value, with sequential timestamps left to the caller.
func uniformFrame(width, height uint16, z float32) []DepthPoint {
	points := make([]DepthPoint, int(width)*int(height))
	for i := range points {
		points[i] = DepthPoint{
			X: 0.01 * float32(i%int(width)), Y: 0.01 * float32(i/int(width)), Z: z,
			Noise: 0.002, GrayValue: 600, Confidence: 200,
		}
	}
	return points
}

// installFakeSDK swaps the wrapper bindings for the fake and marks the
// library loaded. Everything is restored on test cleanup.
func installFakeSDK(t *testing.T) *fakeSDK {
	t.Helper()

	f := &fakeSDK{
		connected:    true,
		useCases:     []string{"MODE_9_5FPS", "MODE_9_10FPS", "MODE_5_35FPS"},
		useCase:      "MODE_9_5FPS",
		frameRate:    5,
		maxFrameRate: 5,
		exposureLow:  50,
		exposureHigh: 2000,
		exposureTime: 500,
		frames:       make(map[uintptr]*fakeFrame),
		strings:      make(map[uintptr][]byte),
		vectors:      make(map[uintptr][]string),
	}

	saved := struct {
		attach         func(callback, payload, outCamera, outListener uintptr) int32
		getUseCases    func(camera, useCases uintptr) int32
		setUseCase     func(camera, useCase uintptr) int32
		getMaxRate     func(camera, outRate uintptr) int32
		getRate        func(camera, outRate uintptr) int32
		setRate        func(camera uintptr, rate uint16) int32
		getMode        func(camera, outIsManual uintptr) int32
		setMode        func(camera uintptr, isManual uint8) int32
		getLimits      func(camera, outLow, outHigh uintptr) int32
		setExposure    func(camera uintptr, exposureTime uint32) int32
		captureStart   func(camera uintptr) int32
		captureStop    func(camera uintptr) int32
		cameraDelete   func(camera, listener uintptr)
		frameMetadata  func(frame, outWidth, outHeight, outTimestamp uintptr)
		framePoint     func(frame, index, outX, outY, outZ, outNoise, outGray, outConfidence uintptr)
		isSuccess      func(status int32) bool
		statusToString func(status int32) uintptr
		deleteString   func(str uintptr)
		newVector      func() uintptr
		vectorLength   func(vector uintptr) int32
		vectorGet      func(vector uintptr, index int32) uintptr
		deleteVector   func(vector uintptr)
		loaded         bool
	}{
		royaleCameraAttach, royaleCameraGetUseCases, royaleCameraSetUseCase,
		royaleCameraGetMaxFrameRate, royaleCameraGetFrameRate, royaleCameraSetFrameRate,
		royaleCameraGetExposureMode, royaleCameraSetExposureMode,
		royaleCameraGetExposureLimits, royaleCameraSetExposureTime,
		royaleCameraCaptureStart, royaleCameraCaptureStop, royaleCameraDelete,
		royaleFrameMetadata, royaleFramePoint,
		royaleIsStatusSuccess, royaleStatusToString, royaleDeleteString,
		royaleNewStringVector, royaleStringVectorLength, royaleStringVectorGet,
		royaleDeleteStringVector,
		libLoaded.Load(),
	}

	t.Cleanup(func() {
		royaleCameraAttach = saved.attach
		royaleCameraGetUseCases = saved.getUseCases
		royaleCameraSetUseCase = saved.setUseCase
		royaleCameraGetMaxFrameRate = saved.getMaxRate
		royaleCameraGetFrameRate = saved.getRate
		royaleCameraSetFrameRate = saved.setRate
		royaleCameraGetExposureMode = saved.getMode
		royaleCameraSetExposureMode = saved.setMode
		royaleCameraGetExposureLimits = saved.getLimits
		royaleCameraSetExposureTime = saved.setExposure
		royaleCameraCaptureStart = saved.captureStart
		royaleCameraCaptureStop = saved.captureStop
		royaleCameraDelete = saved.cameraDelete
		royaleFrameMetadata = saved.frameMetadata
		royaleFramePoint = saved.framePoint
		royaleIsStatusSuccess = saved.isSuccess
		royaleStatusToString = saved.statusToString
		royaleDeleteString = saved.deleteString
		royaleNewStringVector = saved.newVector
		royaleStringVectorLength = saved.vectorLength
		royaleStringVectorGet = saved.vectorGet
		royaleDeleteStringVector = saved.deleteVector
		libLoaded.Store(saved.loaded)
	})

	royaleCameraAttach = func(callback, payload, outCamera, outListener uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.attachStatus != 0 {
			// Pretend the device was created before initialization failed.
			*(*uintptr)(unsafe.Pointer(outCamera)) = fakeCameraPtr
			return f.attachStatus
		}
		if !f.connected {
			// Matches the wrapper: SUCCESS, out-parameters untouched.
			return int32(StatusSuccess)
		}
		f.callback = callback
		f.payload = payload
		*(*uintptr)(unsafe.Pointer(outCamera)) = fakeCameraPtr
		*(*uintptr)(unsafe.Pointer(outListener)) = fakeListenerPtr
		return int32(StatusSuccess)
	}

	royaleCameraGetUseCases = func(camera, useCases uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.vectors[useCases] = append([]string(nil), f.useCases...)
		return int32(StatusSuccess)
	}

	royaleCameraSetUseCase = func(camera, useCase uintptr) int32 {
		name := GoString(useCase)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, uc := range f.useCases {
			if uc == name {
				f.useCase = name
				return int32(StatusSuccess)
			}
		}
		return int32(StatusUseCaseNotSupported)
	}

	royaleCameraGetMaxFrameRate = func(camera, outRate uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*(*uint16)(unsafe.Pointer(outRate)) = f.maxFrameRate
		return int32(StatusSuccess)
	}

	royaleCameraGetFrameRate = func(camera, outRate uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*(*uint16)(unsafe.Pointer(outRate)) = f.frameRate
		return int32(StatusSuccess)
	}

	royaleCameraSetFrameRate = func(camera uintptr, rate uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if rate > f.maxFrameRate {
			return int32(StatusFrameRateNotSupported)
		}
		f.frameRate = rate
		return int32(StatusSuccess)
	}

	royaleCameraGetExposureMode = func(camera, outIsManual uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		var m uint8
		if f.manual {
			m = 1
		}
		*(*uint8)(unsafe.Pointer(outIsManual)) = m
		return int32(StatusSuccess)
	}

	royaleCameraSetExposureMode = func(camera uintptr, isManual uint8) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.manual = isManual != 0
		return int32(StatusSuccess)
	}

	royaleCameraGetExposureLimits = func(camera, outLow, outHigh uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*(*uint32)(unsafe.Pointer(outLow)) = f.exposureLow
		*(*uint32)(unsafe.Pointer(outHigh)) = f.exposureHigh
		return int32(StatusSuccess)
	}

	royaleCameraSetExposureTime = func(camera uintptr, exposureTime uint32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if exposureTime < f.exposureLow || exposureTime > f.exposureHigh {
			return int32(StatusExposureTimeNotSupported)
		}
		f.exposureTime = exposureTime
		return int32(StatusSuccess)
	}

	royaleCameraCaptureStart = func(camera uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.capturing = true
		return int32(StatusSuccess)
	}

	royaleCameraCaptureStop = func(camera uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.capturing = false
		return int32(StatusSuccess)
	}

	royaleCameraDelete = func(camera, listener uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deleted = true
		f.deleteCamera = camera
		f.deleteListen = listener
		f.capturing = false
	}

	royaleFrameMetadata = func(frame, outWidth, outHeight, outTimestamp uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		fr := f.frames[frame]
		*(*uint16)(unsafe.Pointer(outWidth)) = fr.width
		*(*uint16)(unsafe.Pointer(outHeight)) = fr.height
		*(*uint64)(unsafe.Pointer(outTimestamp)) = fr.timestamp
	}

	royaleFramePoint = func(frame, index, outX, outY, outZ, outNoise, outGray, outConfidence uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p := f.frames[frame].points[index]
		*(*float32)(unsafe.Pointer(outX)) = p.X
		*(*float32)(unsafe.Pointer(outY)) = p.Y
		*(*float32)(unsafe.Pointer(outZ)) = p.Z
		*(*float32)(unsafe.Pointer(outNoise)) = p.Noise
		*(*uint16)(unsafe.Pointer(outGray)) = p.GrayValue
		*(*uint8)(unsafe.Pointer(outConfidence)) = p.Confidence
	}

	royaleIsStatusSuccess = func(status int32) bool {
		return status == int32(StatusSuccess)
	}

	royaleStatusToString = func(status int32) uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch Status(status) {
		case StatusSuccess:
			return f.newString("SUCCESS")
		case StatusExposureTimeNotSupported:
			return f.newString("EXPOSURE_TIME_NOT_SUPPORTED")
		case StatusFrameRateNotSupported:
			return f.newString("FRAMERATE_NOT_SUPPORTED")
		case StatusUseCaseNotSupported:
			return f.newString("USECASE_NOT_SUPPORTED")
		default:
			return f.newString("RUNTIME_ERROR")
		}
	}

	royaleDeleteString = func(str uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.strings[str]; ok {
			delete(f.strings, str)
			f.liveUnfree--
		}
	}

	royaleNewStringVector = func() uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextVector++
		handle := 0xA000 + f.nextVector
		f.vectors[handle] = nil
		return handle
	}

	royaleStringVectorLength = func(vector uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		return int32(len(f.vectors[vector]))
	}

	royaleStringVectorGet = func(vector uintptr, index int32) uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.newString(f.vectors[vector][index])
	}

	royaleDeleteStringVector = func(vector uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.vectors, vector)
	}

	libLoaded.Store(true)
	return f
}

// deliver pushes a registered frame through the listener bridge the way the
// SDK thread would.
func (f *fakeSDK) deliver(frame uintptr) {
	f.mu.Lock()
	payload := f.payload
	f.mu.Unlock()
	listenerBridge(frame, payload)
}

// leakedStrings reports wrapper-owned strings that were never freed.
func (f *fakeSDK) leakedStrings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveUnfree
}
