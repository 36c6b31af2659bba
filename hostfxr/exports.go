package hostfxr

import (
	dotnetshim "github.com/wippyai/dotnet-shim"
)

// Export names bound from the hosting library.
const (
	exportInitializeForRuntimeConfig = "hostfxr_initialize_for_runtime_config"
	exportGetRuntimeDelegate         = "hostfxr_get_runtime_delegate"
	exportClose                      = "hostfxr_close"
)

// ContextHandle is a hostfxr runtime context. It is a bootstrap object: the
// runtime it attaches stays resident after the handle is closed.
type ContextHandle uintptr

// DelegateType selects the runtime delegate returned by GetRuntimeDelegate.
type DelegateType int32

const (
	DelegateCOMActivation DelegateType = iota
	DelegateLoadInMemoryAssembly
	DelegateWinRTActivation
	DelegateCOMRegister
	DelegateCOMUnregister
	DelegateLoadAssemblyAndGetFunctionPointer
	DelegateGetFunctionPointer
	DelegateLoadAssembly
	DelegateLoadAssemblyBytes
)

// Exports is the bound surface of the hosting library.
type Exports interface {
	// InitializeForRuntimeConfig creates a runtime context from a runtimeconfig.json.
	// A zero handle means failure.
	InitializeForRuntimeConfig(configPath string) (ContextHandle, StatusCode)
	// GetRuntimeDelegate fetches a runtime delegate of the given type.
	GetRuntimeDelegate(h ContextHandle, t DelegateType) (dotnetshim.FunctionPointer, StatusCode)
	// Close releases the context handle.
	Close(h ContextHandle) StatusCode
}

// AssemblyLoader is the generic load_assembly_and_get_function_pointer delegate.
type AssemblyLoader interface {
	LoadAssemblyAndGetFunctionPointer(assemblyPath, typeName, methodName, delegateTypeName string) (dotnetshim.FunctionPointer, StatusCode)
}

// LibraryLoader locates and loads the hosting library, returning its bound
// exports and the path it was loaded from. Errors are *errors.Error of kind
// KindLibraryDiscovery or KindLibraryLoad.
type LibraryLoader func() (Exports, string, error)

// DelegateAdapter turns the raw generic delegate into a callable AssemblyLoader.
type DelegateAdapter func(dotnetshim.FunctionPointer) AssemblyLoader
