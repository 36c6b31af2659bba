package hostfxr

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
)

type fakeExports struct {
	closed         []ContextHandle
	initCalls      int
	delegateCalls  int
	initHandle     ContextHandle
	initStatus     StatusCode
	delegate       dotnetshim.FunctionPointer
	delegateStatus StatusCode
	closeStatus    StatusCode
	initDelay      time.Duration
	mu             sync.Mutex
}

func newFakeExports() *fakeExports {
	return &fakeExports{initHandle: 0x100, delegate: 0x200}
}

func (f *fakeExports) InitializeForRuntimeConfig(string) (ContextHandle, StatusCode) {
	time.Sleep(f.initDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	return f.initHandle, f.initStatus
}

func (f *fakeExports) GetRuntimeDelegate(ContextHandle, DelegateType) (dotnetshim.FunctionPointer, StatusCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delegateCalls++
	return f.delegate, f.delegateStatus
}

func (f *fakeExports) Close(h ContextHandle) StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, h)
	return f.closeStatus
}

type fakeAssemblyLoader struct {
	requests []dotnetshim.MethodRequest
	missing  map[string]bool
	mu       sync.Mutex
}

func (f *fakeAssemblyLoader) LoadAssemblyAndGetFunctionPointer(assemblyPath, typeName, methodName, delegateTypeName string) (dotnetshim.FunctionPointer, StatusCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, dotnetshim.MethodRequest{
		AssemblyPath:     assemblyPath,
		TypeName:         typeName,
		MethodName:       methodName,
		DelegateTypeName: delegateTypeName,
	})
	if f.missing[methodName] {
		return 0, StatusMissingMethod
	}
	return dotnetshim.FunctionPointer(0x1000 + len(f.requests)), StatusSuccess
}

type loaderFixture struct {
	loader    *Loader
	exports   *fakeExports
	assembly  *fakeAssemblyLoader
	config    string
	libLoads  int
	adaptions int
	libErr    error
	mu        sync.Mutex
}

func newLoaderFixture(t *testing.T) *loaderFixture {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "Demo.runtimeconfig.json")
	if err := os.WriteFile(config, []byte(`{"runtimeOptions":{"tfm":"net8.0"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	fx := &loaderFixture{
		exports:  newFakeExports(),
		assembly: &fakeAssemblyLoader{missing: map[string]bool{}},
		config:   config,
	}
	fx.loader = NewLoader(
		WithLibraryLoader(func() (Exports, string, error) {
			fx.mu.Lock()
			defer fx.mu.Unlock()
			fx.libLoads++
			if fx.libErr != nil {
				return nil, "", fx.libErr
			}
			return fx.exports, "/fake/libhostfxr.so", nil
		}),
		WithDelegateAdapter(func(fp dotnetshim.FunctionPointer) AssemblyLoader {
			fx.mu.Lock()
			defer fx.mu.Unlock()
			fx.adaptions++
			if fp != fx.exports.delegate {
				t.Errorf("adapter got %#x, want %#x", fp, fx.exports.delegate)
			}
			return fx.assembly
		}),
	)
	return fx
}

func (fx *loaderFixture) request(method string) dotnetshim.MethodRequest {
	return dotnetshim.MethodRequest{
		AssemblyPath:     "/plugins/Demo/Demo.dll",
		ConfigPath:       fx.config,
		TypeName:         "Demo.NativeInterop.Plugin, Demo",
		MethodName:       method,
		DelegateTypeName: "Demo.NativeInterop.Plugin+" + method + "Delegate, Demo",
	}
}

func TestLoader_ResolveCachesDelegate(t *testing.T) {
	fx := newLoaderFixture(t)

	if fx.loader.Ready() {
		t.Fatal("loader should not be ready before first resolve")
	}

	first, err := fx.loader.Resolve(fx.config)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := fx.loader.Resolve("/does/not/matter.json")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first != second {
		t.Error("second Resolve should return the cached loader")
	}

	if fx.libLoads != 1 || fx.exports.initCalls != 1 || fx.exports.delegateCalls != 1 || fx.adaptions != 1 {
		t.Errorf("libLoads=%d initCalls=%d delegateCalls=%d adaptions=%d, want all 1",
			fx.libLoads, fx.exports.initCalls, fx.exports.delegateCalls, fx.adaptions)
	}
	if len(fx.exports.closed) != 1 || fx.exports.closed[0] != 0x100 {
		t.Errorf("context handle should be closed once, closed=%v", fx.exports.closed)
	}
	if !fx.loader.Ready() {
		t.Error("loader should be ready")
	}
	if fx.loader.LibraryPath() != "/fake/libhostfxr.so" {
		t.Errorf("LibraryPath = %q", fx.loader.LibraryPath())
	}
}

func TestLoader_LibraryFailureIsRetried(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.libErr = errors.LibraryDiscovery([]string{"/nowhere"}, nil)

	_, err := fx.loader.Resolve(fx.config)
	if !errors.IsKind(err, errors.KindLibraryDiscovery) {
		t.Fatalf("err = %v, want library discovery failure", err)
	}
	if fx.exports.initCalls != 0 {
		t.Error("runtime must not be initialized without a library")
	}

	fx.libErr = nil
	if _, err := fx.loader.Resolve(fx.config); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if fx.libLoads != 2 {
		t.Errorf("libLoads = %d, want 2", fx.libLoads)
	}
}

func TestLoader_MissingConfig(t *testing.T) {
	fx := newLoaderFixture(t)

	_, err := fx.loader.Resolve(filepath.Join(t.TempDir(), "missing.runtimeconfig.json"))
	if !errors.IsKind(err, errors.KindRuntimeInit) {
		t.Fatalf("err = %v, want runtime init failure", err)
	}
	if fx.exports.initCalls != 0 {
		t.Error("initialize should not be called for a missing config")
	}
	if fx.loader.Ready() {
		t.Error("failure must not be cached as success")
	}

	if _, err := fx.loader.Resolve(""); !errors.IsKind(err, errors.KindRuntimeInit) {
		t.Errorf("empty config: err = %v", err)
	}
}

func TestLoader_InitFailure(t *testing.T) {
	tests := []struct {
		name       string
		handle     ContextHandle
		status     StatusCode
		wantClosed int
	}{
		{"null handle", 0, StatusInvalidConfigFile, 0},
		{"failed status with handle", 0x100, StatusFrameworkMissingFailure, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newLoaderFixture(t)
			fx.exports.initHandle = tt.handle
			fx.exports.initStatus = tt.status

			_, err := fx.loader.Resolve(fx.config)
			if !errors.IsKind(err, errors.KindRuntimeInit) {
				t.Fatalf("err = %v, want runtime init failure", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Value != tt.status {
				t.Errorf("status not carried: %v", err)
			}
			if len(fx.exports.closed) != tt.wantClosed {
				t.Errorf("closed = %v, want %d closes", fx.exports.closed, tt.wantClosed)
			}
			if fx.exports.delegateCalls != 0 {
				t.Error("delegate must not be requested after init failure")
			}
		})
	}
}

func TestLoader_AlreadyInitializedStatusSucceeds(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.exports.initStatus = StatusSuccessHostAlreadyInitialized

	if _, err := fx.loader.Resolve(fx.config); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestLoader_DelegateFailure(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.exports.delegate = 0
	fx.exports.delegateStatus = StatusHostInvalidState

	_, err := fx.loader.Resolve(fx.config)
	if !errors.IsKind(err, errors.KindDelegateRetrieval) {
		t.Fatalf("err = %v, want delegate retrieval failure", err)
	}
	if len(fx.exports.closed) != 1 {
		t.Errorf("context should be closed after delegate failure, closed=%v", fx.exports.closed)
	}
	if fx.loader.Ready() {
		t.Error("failure must not be cached")
	}

	// The library stays bound; a retry goes straight to initialization.
	fx.exports.delegate = 0x200
	fx.exports.delegateStatus = StatusSuccess
	if _, err := fx.loader.Resolve(fx.config); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if fx.libLoads != 1 {
		t.Errorf("libLoads = %d, want 1", fx.libLoads)
	}
}

func TestLoader_LoadMethod(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.assembly.missing["CustomFunc"] = true

	fp, err := fx.loader.LoadMethod(fx.request("Update"))
	if err != nil {
		t.Fatalf("LoadMethod: %v", err)
	}
	if fp == 0 {
		t.Fatal("expected non-zero pointer")
	}

	got := fx.assembly.requests[0]
	want := fx.request("Update")
	want.ConfigPath = ""
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}

	_, err = fx.loader.LoadMethod(fx.request("CustomFunc"))
	if !errors.IsKind(err, errors.KindMethodResolution) {
		t.Fatalf("err = %v, want method resolution failure", err)
	}

	if _, err := fx.loader.LoadMethod(fx.request("GetString")); err != nil {
		t.Errorf("other methods should still resolve: %v", err)
	}
	if fx.exports.initCalls != 1 {
		t.Errorf("initCalls = %d, want 1", fx.exports.initCalls)
	}
}

func TestLoader_LoadMethodPropagatesRuntimeFailure(t *testing.T) {
	fx := newLoaderFixture(t)
	req := fx.request("Initialize")
	req.ConfigPath = filepath.Join(t.TempDir(), "nope.json")

	_, err := fx.loader.LoadMethod(req)
	if errors.KindOf(err) != errors.KindRuntimeInit {
		t.Errorf("KindOf = %v, want %v", errors.KindOf(err), errors.KindRuntimeInit)
	}
	if len(fx.assembly.requests) != 0 {
		t.Error("assembly loader must not be called")
	}
}

func TestLoader_ConcurrentFirstUse(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.exports.initDelay = 10 * time.Millisecond

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fx.loader.LoadMethod(fx.request("Update")); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("LoadMethod: %v", err)
	}
	if fx.exports.initCalls != 1 {
		t.Errorf("initCalls = %d, want exactly 1", fx.exports.initCalls)
	}
	if fx.libLoads != 1 {
		t.Errorf("libLoads = %d, want exactly 1", fx.libLoads)
	}
	if len(fx.assembly.requests) != n {
		t.Errorf("requests = %d, want %d", len(fx.assembly.requests), n)
	}
}

func TestDefaultLoader(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	if Default() != orig {
		t.Error("Default should be stable")
	}
	custom := NewLoader()
	SetDefault(custom)
	if Default() != custom {
		t.Error("SetDefault should replace the shared loader")
	}
}

func TestLoader_CloseFailureCombined(t *testing.T) {
	fx := newLoaderFixture(t)
	fx.exports.delegate = 0
	fx.exports.closeStatus = StatusHostInvalidState

	_, err := fx.loader.Resolve(fx.config)
	if !errors.IsKind(err, errors.KindDelegateRetrieval) {
		t.Fatalf("err = %v, want delegate retrieval failure", err)
	}
	if !strings.Contains(err.Error(), StatusHostInvalidState.String()) {
		t.Errorf("close failure should be reported: %v", err)
	}

	// A failed close after a successful bootstrap is only logged.
	fx.exports.delegate = 0x200
	if _, err := fx.loader.Resolve(fx.config); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(fx.exports.closed) != 2 {
		t.Errorf("closed = %d, want 2", len(fx.exports.closed))
	}
}
