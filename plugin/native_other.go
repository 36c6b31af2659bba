//go:build !darwin && !freebsd && !linux && !windows

package plugin

import (
	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
)

// NativeBinder is unavailable on this platform. The loader never produces a
// pointer here, so the bound functions are never reached in practice.
type NativeBinder struct{}

var _ Binder = NativeBinder{}

func (NativeBinder) BindInitialize(dotnetshim.FunctionPointer) InitializeFn {
	return func(*InstanceData, HostContext) {}
}

func (NativeBinder) BindUpdate(dotnetshim.FunctionPointer) UpdateFn {
	return func(InstanceData) float64 { return updateSentinel }
}

func (NativeBinder) BindReload(dotnetshim.FunctionPointer) ReloadFn {
	return func(InstanceData, HostContext, *float64) {}
}

func (NativeBinder) BindGetString(dotnetshim.FunctionPointer) GetStringFn {
	return func(InstanceData) ManagedString { return 0 }
}

func (NativeBinder) BindExecuteBang(dotnetshim.FunctionPointer) ExecuteBangFn {
	return func(InstanceData, string) error {
		return errors.Unsupported(errors.PhaseDispatch, "managed calls on this platform")
	}
}

func (NativeBinder) BindFinalize(dotnetshim.FunctionPointer) FinalizeFn {
	return func(InstanceData) {}
}

func (NativeBinder) BindCustom(dotnetshim.FunctionPointer) CustomFn {
	return func(InstanceData, []string) (ManagedString, error) {
		return 0, errors.Unsupported(errors.PhaseDispatch, "managed calls on this platform")
	}
}
