//go:build !windows

package hostfxr

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

const dotnetExecutable = "dotnet"

var libraryName = func() string {
	if runtime.GOOS == "darwin" {
		return "libhostfxr.dylib"
	}
	return "libhostfxr.so"
}()

// defaultInstallLocations returns the install_location files' content, followed
// by the well-known install directories for the platform.
func defaultInstallLocations(func(string) (string, bool)) []string {
	var dirs []string
	for _, f := range []string{
		"/etc/dotnet/install_location_" + archName(),
		"/etc/dotnet/install_location",
	} {
		if dir := readFirstLine(f); dir != "" {
			dirs = append(dirs, dir)
		}
	}

	if runtime.GOOS == "darwin" {
		return append(dirs, "/usr/local/share/dotnet")
	}
	return append(dirs, "/usr/share/dotnet", "/usr/lib/dotnet")
}

func readFirstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}
