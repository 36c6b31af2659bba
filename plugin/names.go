package plugin

import (
	"github.com/wippyai/dotnet-shim/errors"
)

// Operation names a managed entry point on the plugin type.
type Operation string

// Lifecycle entry points. Each has a nested delegate type named
// <Operation>Delegate on the plugin type.
const (
	OpInitialize  Operation = "Initialize"
	OpUpdate      Operation = "Update"
	OpReload      Operation = "Reload"
	OpGetString   Operation = "GetString"
	OpExecuteBang Operation = "ExecuteBang"
	OpFinalize    Operation = "Finalize"
	OpCustomFunc  Operation = "CustomFunc"
)

// Operations lists the lifecycle entry points in call order.
var Operations = []Operation{
	OpInitialize,
	OpUpdate,
	OpReload,
	OpGetString,
	OpExecuteBang,
	OpFinalize,
	OpCustomFunc,
}

// DelegateSuffix returns the nested delegate type name for op.
func (op Operation) DelegateSuffix() string {
	return string(op) + "Delegate"
}

// DelegateTypeName builds the assembly qualified delegate type for an entry
// point by splicing "+<suffix>" in front of the assembly qualifier of typeName:
//
//	"Demo.NativeInterop.Plugin, Demo" + "UpdateDelegate"
//	  -> "Demo.NativeInterop.Plugin+UpdateDelegate, Demo"
//
// Commas inside generic type arguments ("Plugin`1[[System.Int32, ...]]") are
// skipped. A type name without an assembly qualifier cannot name a delegate.
func DelegateTypeName(typeName, suffix string) (string, error) {
	i := qualifierComma(typeName)
	if i < 0 {
		return "", errors.New(errors.PhaseResolve, errors.KindMethodResolution).
			Target(typeName).
			Detail("type name has no assembly qualifier").
			Build()
	}
	return typeName[:i] + "+" + suffix + typeName[i:], nil
}

// qualifierComma returns the index of the first comma outside square
// brackets, or -1.
func qualifierComma(typeName string) int {
	depth := 0
	for i := 0; i < len(typeName); i++ {
		switch typeName[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
