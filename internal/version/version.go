// Package version reports the versions of the library, its accelerator
// binding and the Go runtime, as recorded in the running binary.
package version

import (
	"runtime"
	"runtime/debug"
)

// Fallback is reported when the binary carries no module version, for
// example under `go run` or `go test`.
const Fallback = "0.1.0-dev"

// Module paths looked up in the build info.
const (
	LibraryModule     = "github.com/born-ml/borncheck"
	AcceleratorModule = "github.com/go-webgpu/webgpu"
)

// None is reported for a dependency the binary was not built with.
const None = "none"

var readBuildInfo = debug.ReadBuildInfo

// Library returns the version of the tensor library.
func Library() string {
	info, ok := readBuildInfo()
	if !ok {
		return Fallback
	}
	if info.Main.Path == LibraryModule && isRelease(info.Main.Version) {
		return info.Main.Version
	}
	if v := depVersion(info, LibraryModule); isRelease(v) {
		return v
	}
	return Fallback
}

// AcceleratorBuild returns the go-webgpu version linked into the binary, or
// None.
func AcceleratorBuild() string {
	info, ok := readBuildInfo()
	if !ok {
		return None
	}
	if v := depVersion(info, AcceleratorModule); v != "" {
		return v
	}
	return None
}

// GoRuntime returns the Go version the binary was built with.
func GoRuntime() string {
	return runtime.Version()
}

func depVersion(info *debug.BuildInfo, path string) string {
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

func isRelease(v string) bool {
	return v != "" && v != "(devel)"
}
