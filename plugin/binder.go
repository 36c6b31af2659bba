package plugin

import (
	dotnetshim "github.com/wippyai/dotnet-shim"
)

// Typed managed entry points. Arguments mirror the managed delegates; strings
// are marshaled as NUL-terminated UTF-16 by the Binder.
type (
	InitializeFn  func(data *InstanceData, host HostContext)
	UpdateFn      func(data InstanceData) float64
	ReloadFn      func(data InstanceData, host HostContext, maxValue *float64)
	GetStringFn   func(data InstanceData) ManagedString
	ExecuteBangFn func(data InstanceData, args string) error
	FinalizeFn    func(data InstanceData)
	CustomFn      func(data InstanceData, args []string) (ManagedString, error)
)

// Binder turns resolved function pointers into typed Go functions. It is the
// only place a raw pointer is given a signature.
type Binder interface {
	BindInitialize(fp dotnetshim.FunctionPointer) InitializeFn
	BindUpdate(fp dotnetshim.FunctionPointer) UpdateFn
	BindReload(fp dotnetshim.FunctionPointer) ReloadFn
	BindGetString(fp dotnetshim.FunctionPointer) GetStringFn
	BindExecuteBang(fp dotnetshim.FunctionPointer) ExecuteBangFn
	BindFinalize(fp dotnetshim.FunctionPointer) FinalizeFn
	BindCustom(fp dotnetshim.FunctionPointer) CustomFn
}
