// Package hostfxr loads the .NET hosting library and resolves managed methods
// into native function pointers.
//
// # Resolution
//
// Loader.Resolve does the expensive work once per process:
//
//  1. Locate hostfxr (app-local, DOTNET_ROOT, dotnet on PATH, install location)
//  2. Load it and bind hostfxr_initialize_for_runtime_config,
//     hostfxr_get_runtime_delegate and hostfxr_close
//  3. Initialize a runtime context from a runtimeconfig.json
//  4. Fetch the load_assembly_and_get_function_pointer delegate
//  5. Close the context handle; the runtime stays resident
//
// The delegate from step 4 is cached and reused for every later call, from every
// plugin instance. The hosting layer refuses a second concurrent runtime in the same
// process, so steps 3 to 5 never run twice once they have succeeded. Failed steps
// cache nothing and may be retried by a later call.
//
// # Shared Service
//
// Default returns the process-wide Loader used by the shim. Tests and embedders
// construct their own with NewLoader and substitute the library through
// WithLibraryLoader and WithDelegateAdapter.
//
// # Thread Safety
//
// Loader is safe for concurrent use. Library loading and runtime initialization
// block the caller and cannot be cancelled.
package hostfxr
