package shim

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/dotnet-shim/errors"
	"github.com/wippyai/dotnet-shim/plugin"
)

// Option configures a Shim.
type Option func(*Shim)

// WithSink sets the host log sink used by the shim and its instances.
func WithSink(s plugin.LogSink) Option {
	return func(sh *Shim) {
		sh.sink = s
	}
}

// WithInstanceOptions adds options applied to every instance the shim creates.
func WithInstanceOptions(opts ...plugin.Option) Option {
	return func(sh *Shim) {
		sh.instanceOpts = append(sh.instanceOpts, opts...)
	}
}

// Shim exposes the fixed plugin entry points for one managed plugin. The host
// holds a Handle per measure; every call forwards to that measure's Instance.
// Failures are reported to the sink and answered with the operation's
// sentinel, never returned to the host.
type Shim struct {
	sink         plugin.LogSink
	instances    *Table[*plugin.Instance]
	instanceOpts []plugin.Option
	layout       Layout
}

// New creates a shim for the plugin described by layout.
func New(layout Layout, opts ...Option) *Shim {
	s := &Shim{
		layout:    layout,
		instances: NewTable[*plugin.Instance](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = plugin.ZapSink{}
	}
	s.instances.Subscribe(func(e Event[*plugin.Instance]) {
		Logger().Debug("instance handle "+e.Type.String(),
			zap.Uint32("handle", uint32(e.Handle)),
			zap.String("plugin", layout.Name))
	})
	return s
}

// Layout returns the plugin layout.
func (s *Shim) Layout() Layout {
	return s.layout
}

// Initialize creates an instance and initializes the managed plugin for host.
// The returned handle is valid even when managed initialization failed; later
// calls on it return sentinels until it is finalized. Zero is returned only
// after Close.
func (s *Shim) Initialize(host plugin.HostContext) Handle {
	cfg := s.layout.Config()
	s.sink.Log(host, plugin.LogDebug, s.layout.Base())
	s.sink.Log(host, plugin.LogDebug, cfg.TypeName)

	opts := append([]plugin.Option{plugin.WithSink(s.sink)}, s.instanceOpts...)
	inst := plugin.New(cfg, opts...)
	if err := inst.Initialize(host); err != nil {
		Logger().Debug("managed initialize failed", zap.Error(err))
	}

	h := s.instances.Insert(inst)
	if h == 0 {
		// Closed: nothing will ever finalize this instance.
		if err := inst.Finalize(); err != nil {
			Logger().Debug("finalize after close", zap.Error(err))
		}
		s.sink.Log(host, plugin.LogError, "plugin shim is closed")
	}
	return h
}

// Reload forwards host settings to the instance.
func (s *Shim) Reload(h Handle, host plugin.HostContext, maxValue *float64) {
	inst, ok := s.lookup(h, "Reload")
	if !ok {
		return
	}
	_ = inst.Reload(host, maxValue)
}

// Update returns the instance value or plugin.UpdateSentinel().
func (s *Shim) Update(h Handle) float64 {
	inst, ok := s.lookup(h, "Update")
	if !ok {
		return plugin.UpdateSentinel()
	}
	v, _ := inst.Update()
	return v
}

// GetString returns the instance string or the null string.
func (s *Shim) GetString(h Handle) plugin.ManagedString {
	inst, ok := s.lookup(h, "GetString")
	if !ok {
		return 0
	}
	str, _ := inst.GetString()
	return str
}

// ExecuteBang forwards a host command to the instance.
func (s *Shim) ExecuteBang(h Handle, args string) {
	inst, ok := s.lookup(h, "ExecuteBang")
	if !ok {
		return
	}
	_ = inst.ExecuteBang(args)
}

// CustomFunc calls the instance's default custom function.
func (s *Shim) CustomFunc(h Handle, args ...string) plugin.ManagedString {
	return s.Call(h, string(plugin.OpCustomFunc), args...)
}

// Call calls a named custom function on the instance.
func (s *Shim) Call(h Handle, name string, args ...string) plugin.ManagedString {
	inst, ok := s.lookup(h, name)
	if !ok {
		return 0
	}
	str, _ := inst.Call(name, args...)
	return str
}

// Finalize finalizes the instance and releases its handle.
func (s *Shim) Finalize(h Handle) {
	inst, ok := s.instances.Remove(h)
	if !ok {
		s.unknown(h, "Finalize")
		return
	}
	_ = inst.Finalize()
}

// Instance returns the instance behind h.
func (s *Shim) Instance(h Handle) (*plugin.Instance, bool) {
	return s.instances.Get(h)
}

// Len returns the number of live instances.
func (s *Shim) Len() int {
	return s.instances.Len()
}

// Close finalizes every live instance and refuses further Initialize calls.
// Finalization errors are combined.
func (s *Shim) Close() error {
	s.instances.Each(func(h Handle, inst *plugin.Instance) bool {
		Logger().Info("finalizing live instance",
			zap.Uint32("handle", uint32(h)),
			zap.Stringer("state", inst.State()),
			zap.String("plugin", s.layout.Name))
		return true
	})

	var err error
	for _, inst := range s.instances.Close() {
		err = multierr.Append(err, inst.Finalize())
	}
	return err
}

func (s *Shim) lookup(h Handle, op string) (*plugin.Instance, bool) {
	inst, ok := s.instances.Get(h)
	if !ok {
		s.unknown(h, op)
	}
	return inst, ok
}

func (s *Shim) unknown(h Handle, op string) {
	err := errors.InvalidState(op, "unknown instance handle")
	Logger().Warn("unknown handle", zap.Uint32("handle", uint32(h)), zap.Error(err))
	s.sink.Log(0, plugin.LogWarning, err.Error())
}
