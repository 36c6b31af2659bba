//go:build !darwin && !freebsd && !linux && !windows

package hostfxr

import (
	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
)

// NativeLibrary reports that hosting is unsupported on this platform.
func NativeLibrary(LocateOptions) LibraryLoader {
	return func() (Exports, string, error) {
		return nil, "", errors.Unsupported(errors.PhaseLoad, "hosting library loading on this platform")
	}
}

// NativeDelegateAdapter is unreachable on this platform since NativeLibrary never succeeds.
func NativeDelegateAdapter(dotnetshim.FunctionPointer) AssemblyLoader {
	return unsupportedAssemblyLoader{}
}

type unsupportedAssemblyLoader struct{}

func (unsupportedAssemblyLoader) LoadAssemblyAndGetFunctionPointer(string, string, string, string) (dotnetshim.FunctionPointer, StatusCode) {
	return 0, StatusHostAPIUnsupportedScenario
}
