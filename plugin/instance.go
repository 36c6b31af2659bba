package plugin

import (
	"fmt"

	"go.uber.org/zap"

	dotnetshim "github.com/wippyai/dotnet-shim"
	"github.com/wippyai/dotnet-shim/errors"
	"github.com/wippyai/dotnet-shim/hostfxr"
)

// updateSentinel is returned by Update when no managed call was made.
const updateSentinel = -1.0

// UpdateSentinel reports the value Update returns when it could not call the plugin.
func UpdateSentinel() float64 {
	return updateSentinel
}

// Config identifies the managed plugin an Instance dispatches to.
type Config struct {
	// AssemblyPath is the managed assembly, e.g. <dir>/Demo/Demo.dll.
	AssemblyPath string
	// ConfigPath is the runtimeconfig.json used to start the runtime.
	ConfigPath string
	// TypeName is the assembly qualified plugin type, e.g.
	// "Demo.NativeInterop.Plugin, Demo".
	TypeName string
}

// State is the lifecycle position of an Instance.
type State int

const (
	StateConstructed State = iota
	StateBound
	StateInitFailed
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateBound:
		return "bound"
	case StateInitFailed:
		return "init_failed"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures an Instance.
type Option func(*Instance)

// WithLoader sets the method loader. Defaults to hostfxr.Default().
func WithLoader(l dotnetshim.MethodLoader) Option {
	return func(i *Instance) {
		i.loader = l
	}
}

// WithBinder sets how resolved pointers become Go functions. Defaults to NativeBinder.
func WithBinder(b Binder) Option {
	return func(i *Instance) {
		i.binder = b
	}
}

// WithSink sets the host log sink. Defaults to a ZapSink on the package logger.
func WithSink(s LogSink) Option {
	return func(i *Instance) {
		i.sink = s
	}
}

// slot caches one resolved entry point. A bound slot is never resolved again.
type slot[F any] struct {
	fn    F
	bound bool
}

// Instance dispatches lifecycle calls for one plugin measure.
type Instance struct {
	loader dotnetshim.MethodLoader
	binder Binder
	sink   LogSink
	custom map[string]*slot[CustomFn]
	cfg    Config
	host   HostContext
	data   InstanceData
	state  State

	initialize  slot[InitializeFn]
	update      slot[UpdateFn]
	reload      slot[ReloadFn]
	getString   slot[GetStringFn]
	executeBang slot[ExecuteBangFn]
	finalize    slot[FinalizeFn]
	customFunc  slot[CustomFn]
}

// New creates an instance in the Constructed state. No managed code is
// touched until Initialize.
func New(cfg Config, opts ...Option) *Instance {
	i := &Instance{cfg: cfg}
	for _, opt := range opts {
		opt(i)
	}
	if i.loader == nil {
		i.loader = hostfxr.Default()
	}
	if i.binder == nil {
		i.binder = NativeBinder{}
	}
	if i.sink == nil {
		i.sink = ZapSink{}
	}
	return i
}

// Config returns the plugin identity the instance was created with.
func (i *Instance) Config() Config {
	return i.cfg
}

// State reports the lifecycle state.
func (i *Instance) State() State {
	return i.state
}

// Data returns the managed instance data, zero unless the instance is bound.
func (i *Instance) Data() InstanceData {
	return i.data
}

// Host returns the host context from the last Initialize or Reload.
func (i *Instance) Host() HostContext {
	return i.host
}

// Initialize binds the managed Initialize entry point and lets the plugin
// create its instance data. A null result leaves the instance in
// StateInitFailed; Initialize may be retried from there.
func (i *Instance) Initialize(host HostContext) error {
	switch i.state {
	case StateBound, StateFinalized:
		err := errors.InvalidState(string(OpInitialize), "instance is "+i.state.String())
		i.log(LogWarning, err.Error())
		return err
	}

	i.host = host
	fn, err := ensure(i, &i.initialize, OpInitialize, string(OpInitialize), i.binder.BindInitialize)
	if err != nil {
		i.state = StateInitFailed
		return err
	}

	var data InstanceData
	fn(&data, host)
	if data == 0 {
		i.state = StateInitFailed
		err := errors.New(errors.PhaseDispatch, errors.KindNotInitialized).
			Op(string(OpInitialize)).
			Target(i.cfg.TypeName).
			Detail("managed Initialize returned null instance data").
			Build()
		i.log(LogError, err.Error())
		return err
	}

	i.data = data
	i.state = StateBound
	Logger().Debug("instance bound",
		zap.String("type", i.cfg.TypeName),
		zap.Uintptr("data", uintptr(data)))
	return nil
}

// Update returns the plugin's current value, or UpdateSentinel on failure.
func (i *Instance) Update() (float64, error) {
	fn, err := ensure(i, &i.update, OpUpdate, string(OpUpdate), i.binder.BindUpdate)
	if err != nil {
		return updateSentinel, err
	}
	return fn(i.data), nil
}

// Reload passes new host settings to the plugin. The plugin may lower or
// raise maxValue in place.
func (i *Instance) Reload(host HostContext, maxValue *float64) error {
	i.host = host
	fn, err := ensure(i, &i.reload, OpReload, string(OpReload), i.binder.BindReload)
	if err != nil {
		return err
	}
	fn(i.data, host, maxValue)
	return nil
}

// GetString returns the plugin's string value. The null string is returned on failure.
func (i *Instance) GetString() (ManagedString, error) {
	fn, err := ensure(i, &i.getString, OpGetString, string(OpGetString), i.binder.BindGetString)
	if err != nil {
		return 0, err
	}
	return fn(i.data), nil
}

// ExecuteBang forwards a host command to the plugin.
func (i *Instance) ExecuteBang(args string) error {
	fn, err := ensure(i, &i.executeBang, OpExecuteBang, string(OpExecuteBang), i.binder.BindExecuteBang)
	if err != nil {
		return err
	}
	if err := fn(i.data, args); err != nil {
		i.log(LogError, fmt.Sprintf("%s was not executed: %v", OpExecuteBang, err))
		return err
	}
	return nil
}

// CustomFunc calls the default custom function entry point.
func (i *Instance) CustomFunc(args ...string) (ManagedString, error) {
	return i.Call(string(OpCustomFunc), args...)
}

// Call invokes the named custom function. Every custom function shares the
// CustomFunc delegate signature and gets its own cached binding, so a missing
// name does not affect the others.
func (i *Instance) Call(name string, args ...string) (ManagedString, error) {
	if name == "" {
		err := errors.InvalidInput(errors.PhaseDispatch, "custom function name is empty")
		i.log(LogError, err.Error())
		return 0, err
	}

	s := &i.customFunc
	if name != string(OpCustomFunc) {
		if i.custom == nil {
			i.custom = make(map[string]*slot[CustomFn])
		}
		s = i.custom[name]
		if s == nil {
			s = &slot[CustomFn]{}
			i.custom[name] = s
		}
	}

	fn, err := ensure(i, s, OpCustomFunc, name, i.binder.BindCustom)
	if err != nil {
		return 0, err
	}
	out, err := fn(i.data, args)
	if err != nil {
		i.log(LogError, fmt.Sprintf("%s was not executed: %v", name, err))
		return 0, err
	}
	return out, nil
}

// Finalize lets the plugin release its instance data, then drops the data,
// the host reference and every cached binding. An instance that never bound
// is finalized without a managed call. Repeated calls are no-ops.
func (i *Instance) Finalize() error {
	if i.state == StateFinalized {
		return nil
	}

	var err error
	if i.data != 0 {
		var fn FinalizeFn
		fn, err = ensure(i, &i.finalize, OpFinalize, string(OpFinalize), i.binder.BindFinalize)
		if err == nil {
			fn(i.data)
		}
	} else if !i.finalize.bound {
		// Nothing to release, but a type that cannot name delegates is still reported.
		_, err = i.delegateFor(OpFinalize, string(OpFinalize))
	}

	i.data = 0
	i.host = 0
	i.state = StateFinalized
	i.initialize = slot[InitializeFn]{}
	i.update = slot[UpdateFn]{}
	i.reload = slot[ReloadFn]{}
	i.getString = slot[GetStringFn]{}
	i.executeBang = slot[ExecuteBangFn]{}
	i.finalize = slot[FinalizeFn]{}
	i.customFunc = slot[CustomFn]{}
	i.custom = nil
	return err
}

// ensure returns the function cached in s, resolving and binding it on first
// use. Every operation but Initialize also needs instance data; without it
// the loader is not consulted and nothing is called. Failures are reported to
// the sink and leave s empty so a later call retries.
func ensure[F any](i *Instance, s *slot[F], op Operation, method string, bind func(dotnetshim.FunctionPointer) F) (F, error) {
	var zero F
	if s.bound {
		if op != OpInitialize && i.data == 0 {
			return zero, i.notInitialized(method)
		}
		return s.fn, nil
	}

	delegate, err := i.delegateFor(op, method)
	if err != nil {
		return zero, err
	}
	if op != OpInitialize && i.data == 0 {
		return zero, i.notInitialized(method)
	}

	fp, err := i.loader.LoadMethod(dotnetshim.MethodRequest{
		AssemblyPath:     i.cfg.AssemblyPath,
		ConfigPath:       i.cfg.ConfigPath,
		TypeName:         i.cfg.TypeName,
		MethodName:       method,
		DelegateTypeName: delegate,
	})
	if err == nil && fp == 0 {
		err = errors.MethodResolution(method, i.cfg.TypeName, "loader returned a null pointer", nil)
	}
	if err != nil {
		i.log(LogError, fmt.Sprintf("failed to get plugin method '%s': %v", method, err))
		return zero, err
	}

	s.fn = bind(fp)
	s.bound = true
	Logger().Debug("method bound",
		zap.String("method", method),
		zap.String("delegate", delegate))
	return s.fn, nil
}

// delegateFor derives the delegate type for op, reporting a type name that
// cannot carry one.
func (i *Instance) delegateFor(op Operation, method string) (string, error) {
	delegate, err := DelegateTypeName(i.cfg.TypeName, op.DelegateSuffix())
	if err != nil {
		err = errors.MethodResolution(method, i.cfg.TypeName, "cannot derive delegate type", err)
		i.log(LogError, fmt.Sprintf("failed to get plugin method '%s': %v", method, err))
		return "", err
	}
	return delegate, nil
}

func (i *Instance) notInitialized(method string) error {
	i.log(LogWarning, fmt.Sprintf("%s was not executed because the instance is not initialized", method))
	return errors.NotInitialized(method)
}

func (i *Instance) log(level LogLevel, msg string) {
	i.sink.Log(i.host, level, msg)
}
