// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// Release archives name architectures and operating systems the way the
// original build toolchain does (x86_64, aarch64, macos), not the Go way.
var (
	archNames = map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "x86",
		"arm":   "arm",
	}
	osNames = map[string]string{
		Darwin: "macos",
	}
)

// Target returns the "<arch>-<os>" string identifying goos/goarch in release
// artifact names, e.g. "x86_64-linux" or "aarch64-macos". Unknown values
// pass through unchanged.
func Target(goos, goarch string) string {
	arch, ok := archNames[goarch]
	if !ok {
		arch = goarch
	}
	osName, ok := osNames[goos]
	if !ok {
		osName = goos
	}
	return arch + "-" + osName
}

// HostTarget returns Target for the running process.
func HostTarget() string {
	return Target(runtime.GOOS, runtime.GOARCH)
}

// ExecutableName appends the platform's executable suffix to name.
func ExecutableName(goos, name string) string {
	if goos == Windows {
		return name + ".exe"
	}
	return name
}
