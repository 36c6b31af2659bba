//go:build darwin || freebsd || linux || windows

package hostfxr

import (
	"runtime"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
)

// NativeLibrary returns the LibraryLoader that locates hostfxr with opts and
// loads it into the process.
func NativeLibrary(opts LocateOptions) LibraryLoader {
	return func() (Exports, string, error) {
		path, err := Locate(opts)
		if err != nil {
			return nil, "", err
		}

		lib, err := openLibrary(path)
		if err != nil {
			return nil, "", errors.LibraryLoad(path, err)
		}

		exports, err := bindExports(lib, path)
		if err != nil {
			if closeErr := lib.Close(); closeErr != nil {
				Logger().Warn("failed to unload hosting library",
					zap.String("path", path),
					zap.Error(closeErr))
			}
			return nil, "", err
		}
		return exports, path, nil
	}
}

type nativeExports struct {
	initialize  func(configPath *charT, parameters uintptr, handle *ContextHandle) int32
	getDelegate func(handle ContextHandle, kind DelegateType, delegate *uintptr) int32
	close       func(handle ContextHandle) int32
}

// bindExports resolves the three hosting exports. The library stays loaded
// for the rest of the process once this succeeds.
func bindExports(lib library, path string) (*nativeExports, error) {
	syms := make(map[string]uintptr, 3)
	for _, name := range []string{
		exportInitializeForRuntimeConfig,
		exportGetRuntimeDelegate,
		exportClose,
	} {
		sym, err := lib.Symbol(name)
		if err != nil || sym == 0 {
			return nil, errors.MissingExport(path, name, err)
		}
		syms[name] = sym
	}

	e := &nativeExports{}
	purego.RegisterFunc(&e.initialize, syms[exportInitializeForRuntimeConfig])
	purego.RegisterFunc(&e.getDelegate, syms[exportGetRuntimeDelegate])
	purego.RegisterFunc(&e.close, syms[exportClose])
	return e, nil
}

func (e *nativeExports) InitializeForRuntimeConfig(configPath string) (ContextHandle, StatusCode) {
	path, err := newCharT(configPath)
	if err != nil {
		return 0, StatusInvalidArgFailure
	}
	var h ContextHandle
	rc := e.initialize(path, 0, &h)
	runtime.KeepAlive(path)
	return h, statusOf(rc)
}

func (e *nativeExports) GetRuntimeDelegate(h ContextHandle, t DelegateType) (dotnetshim.FunctionPointer, StatusCode) {
	var fn uintptr
	rc := e.getDelegate(h, t, &fn)
	return dotnetshim.FunctionPointer(fn), statusOf(rc)
}

func (e *nativeExports) Close(h ContextHandle) StatusCode {
	return statusOf(e.close(h))
}

type nativeAssemblyLoader struct {
	fn func(assemblyPath, typeName, methodName, delegateTypeName *charT, reserved uintptr, delegate *uintptr) int32
}

// NativeDelegateAdapter wraps the raw load_assembly_and_get_function_pointer
// delegate. This is the only place its calling convention is assumed.
func NativeDelegateAdapter(fp dotnetshim.FunctionPointer) AssemblyLoader {
	l := &nativeAssemblyLoader{}
	purego.RegisterFunc(&l.fn, uintptr(fp))
	return l
}

func (l *nativeAssemblyLoader) LoadAssemblyAndGetFunctionPointer(assemblyPath, typeName, methodName, delegateTypeName string) (dotnetshim.FunctionPointer, StatusCode) {
	args := make([]*charT, 4)
	for i, s := range []string{assemblyPath, typeName, methodName, delegateTypeName} {
		if s == "" {
			// A null delegate type selects the default ComponentEntryPoint signature.
			continue
		}
		p, err := newCharT(s)
		if err != nil {
			return 0, StatusInvalidArgFailure
		}
		args[i] = p
	}

	var fn uintptr
	rc := l.fn(args[0], args[1], args[2], args[3], 0, &fn)
	runtime.KeepAlive(args)
	return dotnetshim.FunctionPointer(fn), statusOf(rc)
}
