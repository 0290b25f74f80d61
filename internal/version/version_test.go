package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	saved := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = saved })
}

func TestLibrary(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Path: LibraryModule, Version: "v0.4.2"}})
	assert.Equal(t, "v0.4.2", Library())

	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Path: LibraryModule, Version: "(devel)"}})
	assert.Equal(t, Fallback, Library())

	withBuildInfo(t, nil)
	assert.Equal(t, Fallback, Library())
}

func TestAcceleratorBuild(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Deps: []*debug.Module{
		{Path: "gonum.org/v1/gonum", Version: "v0.16.0"},
		{Path: AcceleratorModule, Version: "v0.1.0"},
	}})
	assert.Equal(t, "v0.1.0", AcceleratorBuild())

	withBuildInfo(t, &debug.BuildInfo{Deps: []*debug.Module{
		{Path: AcceleratorModule, Version: "v0.1.0", Replace: &debug.Module{Path: "../webgpu", Version: "v0.1.1-local"}},
	}})
	assert.Equal(t, "v0.1.1-local", AcceleratorBuild())

	withBuildInfo(t, &debug.BuildInfo{})
	assert.Equal(t, None, AcceleratorBuild())
}

func TestGoRuntime(t *testing.T) {
	assert.Equal(t, runtime.Version(), GoRuntime())
}
