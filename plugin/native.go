//go:build darwin || freebsd || linux || windows

package plugin

import (
	"runtime"

	"github.com/ebitengine/purego"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/wide"
)

// NativeBinder calls managed entry points through their unmanaged function
// pointers using the platform C calling convention.
type NativeBinder struct{}

var _ Binder = NativeBinder{}

func (NativeBinder) BindInitialize(fp dotnetshim.FunctionPointer) InitializeFn {
	var fn InitializeFn
	purego.RegisterFunc(&fn, uintptr(fp))
	return fn
}

func (NativeBinder) BindUpdate(fp dotnetshim.FunctionPointer) UpdateFn {
	var fn UpdateFn
	purego.RegisterFunc(&fn, uintptr(fp))
	return fn
}

func (NativeBinder) BindReload(fp dotnetshim.FunctionPointer) ReloadFn {
	var fn ReloadFn
	purego.RegisterFunc(&fn, uintptr(fp))
	return fn
}

func (NativeBinder) BindGetString(fp dotnetshim.FunctionPointer) GetStringFn {
	var fn GetStringFn
	purego.RegisterFunc(&fn, uintptr(fp))
	return fn
}

func (NativeBinder) BindExecuteBang(fp dotnetshim.FunctionPointer) ExecuteBangFn {
	var raw func(data InstanceData, args *uint16)
	purego.RegisterFunc(&raw, uintptr(fp))
	return func(data InstanceData, args string) error {
		buf, err := wide.Encode(args)
		if err != nil {
			return err
		}
		raw(data, &buf[0])
		runtime.KeepAlive(buf)
		return nil
	}
}

func (NativeBinder) BindFinalize(fp dotnetshim.FunctionPointer) FinalizeFn {
	var fn FinalizeFn
	purego.RegisterFunc(&fn, uintptr(fp))
	return fn
}

func (NativeBinder) BindCustom(fp dotnetshim.FunctionPointer) CustomFn {
	var raw func(data InstanceData, argc int32, argv *uintptr) ManagedString
	purego.RegisterFunc(&raw, uintptr(fp))
	return func(data InstanceData, args []string) (ManagedString, error) {
		bufs, err := wide.EncodeAll(args)
		if err != nil {
			return 0, err
		}
		argv := make([]uintptr, len(bufs)+1)
		for i, b := range bufs {
			argv[i] = wide.Pointer(b)
		}
		s := raw(data, int32(len(args)), &argv[0])
		runtime.KeepAlive(bufs)
		runtime.KeepAlive(argv)
		return s, nil
	}
}
