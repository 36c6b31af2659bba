package hostfxr

import (
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
)

// Loader owns the process-wide hosting state: the bound hostfxr exports and the
// cached generic assembly loader delegate. It implements dotnetshim.MethodLoader.
type Loader struct {
	loadLibrary    LibraryLoader
	adapt          DelegateAdapter
	exports        Exports
	assemblyLoader AssemblyLoader
	libraryPath    string
	mu             sync.Mutex
}

// Option configures a Loader.
type Option func(*Loader)

// WithLibraryLoader replaces how the hosting library is located and loaded.
func WithLibraryLoader(fn LibraryLoader) Option {
	return func(l *Loader) {
		l.loadLibrary = fn
	}
}

// WithLocateOptions loads the native hosting library found with opts.
func WithLocateOptions(opts LocateOptions) Option {
	return func(l *Loader) {
		l.loadLibrary = NativeLibrary(opts)
	}
}

// WithDelegateAdapter replaces how the raw generic delegate becomes callable.
func WithDelegateAdapter(fn DelegateAdapter) Option {
	return func(l *Loader) {
		l.adapt = fn
	}
}

// NewLoader creates a Loader. Nothing is loaded until the first Resolve.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		loadLibrary: NativeLibrary(LocateOptions{}),
		adapt:       NativeDelegateAdapter,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	defaultLoader *Loader
	defaultMu     sync.Mutex
)

// Default returns the process-wide Loader, creating it on first use.
func Default() *Loader {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLoader == nil {
		defaultLoader = NewLoader()
	}
	return defaultLoader
}

// SetDefault replaces the process-wide Loader.
// This must be called before any instance resolves its first method.
func SetDefault(l *Loader) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLoader = l
}

// Resolve returns the generic assembly loader, loading the hosting library and
// starting the runtime from configPath on first use. Once a loader has been
// obtained it is returned for every later call and configPath is ignored.
func (l *Loader) Resolve(configPath string) (AssemblyLoader, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.assemblyLoader != nil {
		return l.assemblyLoader, nil
	}

	if l.exports == nil {
		exports, path, err := l.loadLibrary()
		if err != nil {
			Logger().Warn("hosting library unavailable", zap.Error(err))
			return nil, err
		}
		if exports == nil {
			return nil, errors.LibraryLoad(path, nil)
		}
		l.exports = exports
		l.libraryPath = path
		Logger().Info("hosting library loaded", zap.String("path", path))
	}

	if configPath == "" {
		return nil, errors.RuntimeInit(configPath, nil, errors.InvalidInput(errors.PhaseInit, "empty runtime config path"))
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, errors.RuntimeInit(configPath, nil, err)
	}

	fp, err := l.bootstrap(configPath)
	if err != nil {
		Logger().Warn("runtime bootstrap failed", zap.String("config", configPath), zap.Error(err))
		return nil, err
	}

	l.assemblyLoader = l.adapt(fp)
	Logger().Info("runtime delegate cached", zap.String("config", configPath))
	return l.assemblyLoader, nil
}

// bootstrap creates a runtime context, extracts the generic delegate and
// releases the context handle whatever the outcome. A failed release is
// folded into the returned error, or only logged when bootstrap succeeded.
func (l *Loader) bootstrap(configPath string) (fp dotnetshim.FunctionPointer, err error) {
	handle, status := l.exports.InitializeForRuntimeConfig(configPath)
	if handle != 0 {
		defer func() {
			st := l.exports.Close(handle)
			if !st.Failed() {
				return
			}
			if err != nil {
				err = multierr.Append(err, errors.New(errors.PhaseInit, errors.KindRuntimeInit).
					Op("close").
					Target(configPath).
					Value(st).
					Detail("status %v", st).
					Build())
				return
			}
			Logger().Warn("closing runtime context failed", zap.Stringer("status", st))
		}()
	}
	if handle == 0 || status.Failed() {
		return 0, errors.RuntimeInit(configPath, status, nil)
	}
	if status != StatusSuccess {
		Logger().Debug("runtime context reused", zap.Stringer("status", status))
	}

	fp, status = l.exports.GetRuntimeDelegate(handle, DelegateLoadAssemblyAndGetFunctionPointer)
	if fp == 0 || status.Failed() {
		return 0, errors.DelegateRetrieval(configPath, status)
	}
	return fp, nil
}

// LoadMethod resolves a managed method into a function pointer. Failures to
// start the runtime are returned as is; failures of the managed lookup are
// KindMethodResolution.
func (l *Loader) LoadMethod(req dotnetshim.MethodRequest) (dotnetshim.FunctionPointer, error) {
	loader, err := l.Resolve(req.ConfigPath)
	if err != nil {
		return 0, err
	}

	fp, status := loader.LoadAssemblyAndGetFunctionPointer(req.AssemblyPath, req.TypeName, req.MethodName, req.DelegateTypeName)
	if status != StatusSuccess || fp == 0 {
		return 0, errors.New(errors.PhaseResolve, errors.KindMethodResolution).
			Op(req.MethodName).
			Target(req.TypeName).
			Value(status).
			Detail("load_assembly_and_get_function_pointer returned %v", status).
			Build()
	}

	Logger().Debug("managed method resolved",
		zap.String("method", req.MethodName),
		zap.String("delegate", req.DelegateTypeName))
	return fp, nil
}

// Ready reports whether the generic delegate is cached.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assemblyLoader != nil
}

// LibraryPath returns the path the hosting library was loaded from, or "".
func (l *Loader) LibraryPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.libraryPath
}

var _ dotnetshim.MethodLoader = (*Loader)(nil)
