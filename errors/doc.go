// Package errors provides structured error types for the dotnet-shim library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the failing operation, the target it acted on (a file path,
// an export or a managed method), the raw hosting status when there is one, and the
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindMethodResolution).
//		Op("Update").
//		Target("Demo.NativeInterop.Plugin, Demo").
//		Detail("status %#x", status).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RuntimeInit(configPath, status, cause)
//	err := errors.NotInitialized("Update")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, regardless of phase.
package errors
