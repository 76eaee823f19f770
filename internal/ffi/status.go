package ffi

import (
	"errors"
	"fmt"
)

// Status mirrors royale::CameraStatus. Values are passed through the wrapper
// unchanged; the only partition this layer asserts is success vs non-success.
type Status int32

// Status values from royale/Status.hpp.
const (
	StatusSuccess                  Status = 0
	StatusRuntimeError             Status = 1024
	StatusDisconnected             Status = 1026
	StatusInvalidValue             Status = 1027
	StatusTimeout                  Status = 1028
	StatusLogicError               Status = 2048
	StatusNotImplemented           Status = 2049
	StatusOutOfBounds              Status = 2050
	StatusResourceError            Status = 4096
	StatusFileNotFound             Status = 4097
	StatusCouldNotOpen             Status = 4098
	StatusDataNotFound             Status = 4099
	StatusDeviceIsBusy             Status = 4100
	StatusWrongDataFormat          Status = 4101
	StatusCalibrationDataError     Status = 4102
	StatusInsufficientPrivileges   Status = 4103
	StatusDeviceAlreadyInitialized Status = 4104
	StatusDeviceNotInitialized     Status = 4105
	StatusUseCaseNotSupported      Status = 4106
	StatusFrameRateNotSupported    Status = 4107
	StatusExposureTimeNotSupported Status = 4108
	StatusDeviceNotConnected       Status = 4109
	StatusCalibrationMissing       Status = 4110
	StatusUnsupportedOperation     Status = 4111
)

// Error sentinels for the status codes callers act on. Support errors.Is()
// through StatusError.Unwrap.
var (
	// ErrNoDevice is reported by Attach when no camera is connected. It has
	// no SDK status code: the wrapper reports SUCCESS with null handles in
	// this case, and this layer lifts that into a distinct error.
	ErrNoDevice = errors.New("no depth camera connected")

	ErrRuntime                  = errors.New("runtime error")
	ErrDisconnected             = errors.New("device disconnected")
	ErrInvalidValue             = errors.New("invalid value")
	ErrTimeout                  = errors.New("timeout")
	ErrDeviceBusy               = errors.New("device is busy")
	ErrNotInitialized           = errors.New("device not initialized")
	ErrAlreadyInitialized       = errors.New("device already initialized")
	ErrUseCaseNotSupported      = errors.New("use case not supported")
	ErrFrameRateNotSupported    = errors.New("frame rate not supported")
	ErrExposureTimeNotSupported = errors.New("exposure time not supported")
	ErrNotConnected             = errors.New("device not connected")
	ErrUnsupportedOperation     = errors.New("unsupported operation")
)

// IsSuccess returns true iff s is the SDK's SUCCESS value.
func (s Status) IsSuccess() bool {
	if libLoaded.Load() {
		return royaleIsStatusSuccess(int32(s))
	}
	return s == StatusSuccess
}

// String returns the SDK's human-readable form of the status when the
// library is loaded, and a numeric fallback otherwise. It never fails.
func (s Status) String() string {
	if libLoaded.Load() {
		if msg := GoStringAndFree(royaleStatusToString(int32(s))); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("camera status %d", int32(s))
}

// StatusError carries a non-success SDK status code. Error text comes from
// the SDK on demand; Unwrap exposes the matching sentinel for errors.Is.
type StatusError struct {
	Code Status
}

func (e *StatusError) Error() string {
	return e.Code.String()
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case StatusRuntimeError:
		return ErrRuntime
	case StatusDisconnected:
		return ErrDisconnected
	case StatusInvalidValue:
		return ErrInvalidValue
	case StatusTimeout:
		return ErrTimeout
	case StatusDeviceIsBusy:
		return ErrDeviceBusy
	case StatusDeviceNotInitialized:
		return ErrNotInitialized
	case StatusDeviceAlreadyInitialized:
		return ErrAlreadyInitialized
	case StatusUseCaseNotSupported:
		return ErrUseCaseNotSupported
	case StatusFrameRateNotSupported:
		return ErrFrameRateNotSupported
	case StatusExposureTimeNotSupported:
		return ErrExposureTimeNotSupported
	case StatusDeviceNotConnected:
		return ErrNotConnected
	case StatusUnsupportedOperation:
		return ErrUnsupportedOperation
	default:
		return nil
	}
}

// cameraError projects a wrapper return code onto a Go error.
// Returns nil for SUCCESS.
func cameraError(code int32) error {
	s := Status(code)
	if s.IsSuccess() {
		return nil
	}
	return &StatusError{Code: s}
}
