package hostfxr

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/wippyai/dotnet-shim/errors"
)

// LocateOptions controls where Locate looks for the hosting library.
// The zero value uses the process environment and the platform install locations.
type LocateOptions struct {
	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// LookPath finds the dotnet executable. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// AssemblyPath is the managed assembly being hosted. With AppLocal set, a
	// hosting library next to it (self-contained layout) takes precedence.
	AssemblyPath string
	// DotnetRoot pins the installation root. When set, environment, PATH and
	// install locations are not consulted.
	DotnetRoot string
	// InstallLocations replaces the platform default install locations when non-nil.
	InstallLocations []string
	AppLocal         bool
}

// LibraryName is the platform file name of the hosting library.
func LibraryName() string {
	return libraryName
}

// Locate returns the path of the hosting library following the same order as
// nethost: app-local, DOTNET_ROOT_<ARCH>, DOTNET_ROOT, dotnet on PATH, then the
// registered or default install location. Within a root, the highest versioned
// host/fxr directory wins.
func Locate(opts LocateOptions) (string, error) {
	opts = opts.withDefaults()
	var probed []string

	if opts.AppLocal && opts.AssemblyPath != "" {
		candidate := filepath.Join(filepath.Dir(opts.AssemblyPath), libraryName)
		probed = append(probed, candidate)
		if isFile(candidate) {
			Logger().Debug("hostfxr found next to assembly", zap.String("path", candidate))
			return candidate, nil
		}
	}

	for _, root := range opts.roots() {
		probed = append(probed, filepath.Join(root, "host", "fxr"))
		if path, ok := fxrInRoot(root); ok {
			Logger().Debug("hostfxr found", zap.String("root", root), zap.String("path", path))
			return path, nil
		}
	}

	return "", errors.LibraryDiscovery(probed, nil)
}

func (o LocateOptions) withDefaults() LocateOptions {
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	return o
}

// roots lists candidate installation roots in probing order, without duplicates.
func (o LocateOptions) roots() []string {
	if o.DotnetRoot != "" {
		return []string{o.DotnetRoot}
	}

	var roots []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		roots = append(roots, dir)
	}

	if v, ok := o.LookupEnv("DOTNET_ROOT_" + strings.ToUpper(archName())); ok {
		add(v)
	}
	if v, ok := o.LookupEnv("DOTNET_ROOT"); ok {
		add(v)
	}

	if exe, err := o.LookPath(dotnetExecutable); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		add(filepath.Dir(exe))
	}

	locations := o.InstallLocations
	if locations == nil {
		locations = defaultInstallLocations(o.LookupEnv)
	}
	for _, dir := range locations {
		add(dir)
	}
	return roots
}

// fxrInRoot picks the highest semantic version under <root>/host/fxr that
// contains the hosting library. Directories that are not versions are skipped.
func fxrInRoot(root string) (string, bool) {
	dir := filepath.Join(root, "host", "fxr")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var best *semver.Version
	var bestPath string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.NewVersion(e.Name())
		if err != nil {
			continue
		}
		candidate := filepath.Join(dir, e.Name(), libraryName)
		if !isFile(candidate) {
			continue
		}
		if best == nil || best.LessThan(*v) {
			best = v
			bestPath = candidate
		}
	}
	return bestPath, best != nil
}

func archName() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return runtime.GOARCH
	}
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
