package ffi

// Function pointers for every libroyale_wrapper entry point, populated by
// registerFunctions() once the library is loaded. Pointer-typed C parameters
// are uintptrs obtained via unsafe.Pointer at the call sites.
//
// These are package-level variables rather than an interface so that tests
// can substitute a fake SDK without a loaded library.
var (
	royaleCameraAttach            func(callback, payload, outCamera, outListener uintptr) int32
	royaleCameraGetUseCases       func(camera, useCases uintptr) int32
	royaleCameraSetUseCase        func(camera, useCase uintptr) int32
	royaleCameraGetMaxFrameRate   func(camera, outRate uintptr) int32
	royaleCameraGetFrameRate      func(camera, outRate uintptr) int32
	royaleCameraSetFrameRate      func(camera uintptr, rate uint16) int32
	royaleCameraGetExposureMode   func(camera, outIsManual uintptr) int32
	royaleCameraSetExposureMode   func(camera uintptr, isManual uint8) int32
	royaleCameraGetExposureLimits func(camera, outLow, outHigh uintptr) int32
	royaleCameraSetExposureTime   func(camera uintptr, exposureTime uint32) int32
	royaleCameraCaptureStart      func(camera uintptr) int32
	royaleCameraCaptureStop       func(camera uintptr) int32
	royaleCameraDelete            func(camera, listener uintptr)

	royaleFrameMetadata func(frame, outWidth, outHeight, outTimestamp uintptr)
	royaleFramePoint    func(frame, index, outX, outY, outZ, outNoise, outGray, outConfidence uintptr)

	royaleIsStatusSuccess func(status int32) bool
	royaleStatusToString  func(status int32) uintptr
	royaleDeleteString    func(str uintptr)

	royaleNewStringVector    func() uintptr
	royaleStringVectorLength func(vector uintptr) int32
	royaleStringVectorGet    func(vector uintptr, index int32) uintptr
	royaleDeleteStringVector func(vector uintptr)
)
