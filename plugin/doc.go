// Package plugin dispatches the fixed plugin lifecycle to a managed assembly.
//
// An Instance represents one plugin measure. Each lifecycle operation
// (Initialize, Update, Reload, GetString, ExecuteBang, Finalize, CustomFunc)
// resolves its managed entry point on first use through a MethodLoader,
// caches the typed function for the life of the instance and calls through
// the cache afterwards.
//
// Failures never panic and never reach managed code: they are logged to the
// host LogSink and the operation returns its sentinel value alongside a
// structured error.
//
//	inst := plugin.New(plugin.Config{
//		AssemblyPath: "/plugins/Demo/Demo.dll",
//		ConfigPath:   "/plugins/Demo/Demo.runtimeconfig.json",
//		TypeName:     "Demo.NativeInterop.Plugin, Demo",
//	})
//	_ = inst.Initialize(host)
//	v, _ := inst.Update()
//	_ = inst.Finalize()
//
// # Thread Safety
//
// An Instance is not safe for concurrent use. The host drives one operation at
// a time per instance. Different instances may be used from different
// goroutines; they share only the loader, which serializes runtime startup.
//
// # Ownership
//
// InstanceData, HostContext and ManagedString are non-owning handles. The
// managed side owns instance data and returned strings, the host owns its
// context. Nothing here frees them.
package plugin
