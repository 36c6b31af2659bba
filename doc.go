// Package dotnetshim lets a native plugin host call methods of a separately compiled
// .NET component without loading the managed runtime until the first call.
//
// The library is organized into a few packages with distinct responsibilities:
//
//	dotnetshim/          Root package with FunctionPointer, MethodRequest and MethodLoader
//	├── hostfxr/         Hosting library discovery, loading and the shared Loader service
//	├── plugin/          Per-instance dispatcher with lazily bound entry points
//	├── shim/            Fixed lifecycle entry points keyed by opaque handles
//	├── wide/            UTF-16 strings for the managed plugin contract
//	├── config/          Harness configuration (file, environment, flags)
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
//	layout := shim.Layout{Root: dir, Name: "Demo"}
//	s := shim.New(layout)
//	defer s.Close()
//
//	h := s.Initialize(0)
//	fmt.Println(s.Update(h))
//	fmt.Println(s.GetString(h).Copy())
//	s.Finalize(h)
//
// # Runtime Lifetime
//
// The hosting runtime allows one active CLR per process. The first resolution
// loads hostfxr, initializes a runtime context from the plugin's
// runtimeconfig.json, keeps the generic load-assembly delegate and closes the
// context handle. Every later resolution, from any instance, reuses that delegate.
//
// # Thread Safety
//
// hostfxr.Loader is safe for concurrent use. plugin.Instance is NOT thread-safe:
// the host is expected to call one operation at a time per instance.
package dotnetshim
