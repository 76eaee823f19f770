// Package testutil gates hardware-backed tests: they run only when the
// wrapper library loads and a depth camera is connected, and skip
// otherwise so the suite stays green on machines without the SDK.
package testutil

import (
	"errors"
	"testing"

	"github.com/thesyncim/libgoroyale/pkg/camera"
)

// RequireLibrary loads the wrapper library or skips the test.
func RequireLibrary(tb testing.TB) {
	tb.Helper()
	if err := camera.LoadLibrary(); err != nil {
		tb.Skipf("royale wrapper library unavailable: %v", err)
	}
}

// RequireCamera loads the library and attaches to a depth camera, skipping
// the test when either is unavailable. The camera is closed on cleanup.
func RequireCamera(tb testing.TB, opts ...camera.Option) *camera.Camera {
	tb.Helper()
	RequireLibrary(tb)
	cam, err := camera.Attach(opts...)
	if err != nil {
		if errors.Is(err, camera.ErrNoDevice) {
			tb.Skip("no depth camera connected")
		}
		tb.Fatalf("attach: %v", err)
	}
	tb.Cleanup(cam.Close)
	return cam
}
