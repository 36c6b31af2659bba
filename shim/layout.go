package shim

import (
	"os"
	"path/filepath"

	"github.com/wippyai/dotnet-shim/errors"
	"github.com/wippyai/dotnet-shim/plugin"
)

// Layout derives a plugin's file locations from its name. A plugin named
// Demo under root lives in <root>/Demo/ as Demo.dll with
// Demo.runtimeconfig.json beside it, and exposes Demo.NativeInterop.Plugin.
type Layout struct {
	Root string
	Name string
	// Type overrides the derived plugin type name when set.
	Type string
}

// Dir is the plugin directory.
func (l Layout) Dir() string {
	return filepath.Join(l.Root, l.Name)
}

// Base is the plugin path without extension.
func (l Layout) Base() string {
	return filepath.Join(l.Dir(), l.Name)
}

func (l Layout) AssemblyPath() string {
	return l.Base() + ".dll"
}

func (l Layout) ConfigPath() string {
	return l.Base() + ".runtimeconfig.json"
}

func (l Layout) TypeName() string {
	if l.Type != "" {
		return l.Type
	}
	return l.Name + ".NativeInterop.Plugin, " + l.Name
}

// Config returns the instance configuration for this layout.
func (l Layout) Config() plugin.Config {
	return plugin.Config{
		AssemblyPath: l.AssemblyPath(),
		ConfigPath:   l.ConfigPath(),
		TypeName:     l.TypeName(),
	}
}

// ModuleDirectory returns the directory holding the running binary, with
// symlinks resolved. Plugins are looked up relative to it by default.
func ModuleDirectory() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(errors.PhaseConfig, errors.KindLibraryDiscovery, err, "locate running binary")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
