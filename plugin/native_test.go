//go:build (darwin || linux) && (amd64 || arm64)

package plugin

import (
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/wide"
)

// callback exposes fn as an unmanaged function pointer, standing in for a
// managed entry point.
func callback(fn any) dotnetshim.FunctionPointer {
	return dotnetshim.FunctionPointer(purego.NewCallback(fn))
}

// argvStrings decodes argc UTF-16 strings from argv and reports whether the
// array carries a trailing null entry.
func argvStrings(argc int32, argv uintptr) ([]string, bool) {
	entries := unsafe.Slice((*uintptr)(unsafe.Pointer(argv)), int(argc)+1)
	out := make([]string, argc)
	for i := range out {
		out[i] = wide.FromPointer(entries[i])
	}
	return out, entries[argc] == 0
}

func TestNativeBinder_Custom(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"two args", []string{"Hello", "Custom Function"}},
		{"no args", nil},
		{"empty and non-ascii", []string{"", "Grüße 𝄞"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotData        uintptr
				gotArgs        []string
				nullTerminated bool
			)
			fp := callback(func(data uintptr, argc int32, argv uintptr) uintptr {
				gotData = data
				gotArgs, nullTerminated = argvStrings(argc, argv)
				return 0x77
			})

			out, err := NativeBinder{}.BindCustom(fp)(InstanceData(0x1000), tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != ManagedString(0x77) {
				t.Errorf("result = %#x, want 0x77", uintptr(out))
			}
			if gotData != 0x1000 {
				t.Errorf("data = %#x", gotData)
			}
			if len(gotArgs) != len(tt.args) {
				t.Fatalf("argc = %d, want %d", len(gotArgs), len(tt.args))
			}
			for i := range tt.args {
				if gotArgs[i] != tt.args[i] {
					t.Errorf("argv[%d] = %q, want %q", i, gotArgs[i], tt.args[i])
				}
			}
			if !nullTerminated {
				t.Error("argv should end with a null entry")
			}
		})
	}
}

func TestNativeBinder_ExecuteBang(t *testing.T) {
	tests := []string{"SetValue 5", "", "Grüße 𝄞"}

	for _, args := range tests {
		t.Run(args, func(t *testing.T) {
			var (
				gotData uintptr
				got     string
				units   int
			)
			fp := callback(func(data uintptr, p uintptr) uintptr {
				gotData = data
				got = wide.FromPointer(p)
				for *(*uint16)(unsafe.Add(unsafe.Pointer(p), 2*units)) != 0 {
					units++
				}
				return 0
			})

			if err := (NativeBinder{}).BindExecuteBang(fp)(InstanceData(0x2000), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotData != 0x2000 {
				t.Errorf("data = %#x", gotData)
			}
			if got != args {
				t.Errorf("args = %q, want %q", got, args)
			}
			want, _ := wide.Encode(args)
			if units != len(want)-1 {
				t.Errorf("terminator after %d units, want %d", units, len(want)-1)
			}
		})
	}
}

func TestNativeBinder_GetString(t *testing.T) {
	fp := callback(func(data uintptr) uintptr {
		return data + 1
	})

	if got := (NativeBinder{}).BindGetString(fp)(InstanceData(0x3000)); got != ManagedString(0x3001) {
		t.Errorf("GetString = %#x, want 0x3001", uintptr(got))
	}
}

func TestNativeBinder_GetStringNull(t *testing.T) {
	fp := callback(func(uintptr) uintptr {
		return 0
	})

	if got := (NativeBinder{}).BindGetString(fp)(InstanceData(0x3000)); !got.IsNull() {
		t.Errorf("GetString = %#x, want null", uintptr(got))
	}
}

func TestNativeBinder_Finalize(t *testing.T) {
	var finalized []uintptr
	fp := callback(func(data uintptr) uintptr {
		finalized = append(finalized, data)
		return 0
	})

	fn := NativeBinder{}.BindFinalize(fp)
	fn(InstanceData(0x4000))
	fn(InstanceData(0x4001))

	if len(finalized) != 2 || finalized[0] != 0x4000 || finalized[1] != 0x4001 {
		t.Errorf("finalized = %#x", finalized)
	}
}
