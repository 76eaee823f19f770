package ffi

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// registerFunctions resolves every wrapper symbol and binds it to its
// function variable. Called once by LoadLibrary with libMu held.
func registerFunctions() error {
	bindings := []struct {
		name string
		fptr any
	}{
		{"camera_attach", &royaleCameraAttach},
		{"camera_get_use_cases", &royaleCameraGetUseCases},
		{"camera_set_use_case", &royaleCameraSetUseCase},
		{"camera_get_max_frame_rate", &royaleCameraGetMaxFrameRate},
		{"camera_get_frame_rate", &royaleCameraGetFrameRate},
		{"camera_set_frame_rate", &royaleCameraSetFrameRate},
		{"camera_get_exposure_mode", &royaleCameraGetExposureMode},
		{"camera_set_exposure_mode", &royaleCameraSetExposureMode},
		{"camera_get_exposure_limits", &royaleCameraGetExposureLimits},
		{"camera_set_exposure_time", &royaleCameraSetExposureTime},
		{"camera_capture_start", &royaleCameraCaptureStart},
		{"camera_capture_stop", &royaleCameraCaptureStop},
		{"camera_delete", &royaleCameraDelete},
		{"frame_metadata", &royaleFrameMetadata},
		{"frame_point", &royaleFramePoint},
		{"is_camera_status_success", &royaleIsStatusSuccess},
		{"camera_status_to_string", &royaleStatusToString},
		{"delete_string", &royaleDeleteString},
		{"new_string_vector", &royaleNewStringVector},
		{"string_vector_length", &royaleStringVectorLength},
		{"string_vector_get", &royaleStringVectorGet},
		{"delete_string_vector", &royaleDeleteStringVector},
	}

	for _, b := range bindings {
		addr, err := dlsymLibrary(libHandle, b.name)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", b.name, err)
		}
		purego.RegisterFunc(b.fptr, addr)
	}
	return nil
}
