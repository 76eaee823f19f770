// Package ffi provides FFI bindings to the libroyale_wrapper shared library,
// the C shim around the pmd Royale depth camera SDK.
//
// Everything in this package is a thin projection of the wrapper's C ABI:
// opaque handles are uintptrs, status codes are passed through unchanged,
// and frame views are borrows that must not outlive the delivering callback.
package ffi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrLibraryNotLoaded is returned when the wrapper library hasn't been loaded.
var ErrLibraryNotLoaded = errors.New("libroyale_wrapper library not loaded")

var (
	libHandle uintptr
	libLoaded atomic.Bool // lock-free reads on the call paths
	libMu     sync.Mutex  // serializes load/unload
)

// LoadLibrary loads the libroyale_wrapper shared library.
// It searches in the following locations:
//  1. Path specified by the ROYALE_WRAPPER_PATH environment variable
//  2. ./lib/{os}_{arch}/ relative to the executable, working directory
//     and module root
//  3. System library paths
func LoadLibrary() error {
	libMu.Lock()
	defer libMu.Unlock()

	if libLoaded.Load() {
		return nil
	}

	libPath := getLibraryName()
	if local, ok := findLocalLibrary(); ok {
		libPath = local
	}

	handle, err := dlopenLibrary(libPath, RTLD_NOW|RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", libPath, err)
	}

	libHandle = handle
	if err := registerFunctions(); err != nil {
		_ = dlcloseLibrary(handle)
		libHandle = 0
		return err
	}

	libLoaded.Store(true)
	return nil
}

// MustLoadLibrary loads the library and panics on failure.
func MustLoadLibrary() {
	if err := LoadLibrary(); err != nil {
		panic(fmt.Sprintf("libgoroyale: %v", err))
	}
}

// IsLoaded returns true if the wrapper library is loaded.
func IsLoaded() bool {
	return libLoaded.Load()
}

// Close unloads the wrapper library. Any attached cameras must be closed
// first; calling into the SDK after Close is undefined.
func Close() error {
	libMu.Lock()
	defer libMu.Unlock()

	if !libLoaded.Load() {
		return nil
	}

	if err := dlcloseLibrary(libHandle); err != nil {
		return err
	}

	libLoaded.Store(false)
	libHandle = 0
	return nil
}

func findLocalLibrary() (string, bool) {
	if path := os.Getenv("ROYALE_WRAPPER_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	libName := getLibraryName()
	platformDir := fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH)

	var searchPaths []string

	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		searchPaths = append(searchPaths, filepath.Join(execDir, "lib", platformDir, libName))
	}

	if wd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(wd, "lib", platformDir, libName),
			filepath.Join(wd, "..", "lib", platformDir, libName),
			filepath.Join(wd, "..", "..", "lib", platformDir, libName),
		)
	}

	// Relative to this source file, for development checkouts.
	_, thisFile, _, ok := runtime.Caller(0)
	if ok {
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
		searchPaths = append(searchPaths, filepath.Join(moduleRoot, "lib", platformDir, libName))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, _ := filepath.Abs(path)
			return absPath, true
		}
	}

	return "", false
}

func getLibraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libroyale_wrapper.dylib"
	case "windows":
		return "royale_wrapper.dll"
	default:
		return "libroyale_wrapper.so"
	}
}
