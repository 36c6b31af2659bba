package dotnetshim

// FunctionPointer is the raw address of a native or managed entry point.
// Zero means unresolved.
type FunctionPointer uintptr

// MethodRequest names a managed method to resolve into a FunctionPointer.
type MethodRequest struct {
	// AssemblyPath is the managed assembly containing TypeName.
	AssemblyPath string
	// ConfigPath is the runtimeconfig.json used if the runtime is not started yet.
	ConfigPath string
	// TypeName is the assembly qualified type, e.g. "Demo.NativeInterop.Plugin, Demo".
	TypeName string
	// MethodName is the static method on TypeName.
	MethodName string
	// DelegateTypeName is the assembly qualified delegate describing the signature.
	DelegateTypeName string
}

// MethodLoader resolves managed methods into callable pointers.
type MethodLoader interface {
	LoadMethod(req MethodRequest) (FunctionPointer, error)
}
