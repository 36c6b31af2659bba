//go:build windows

package hostfxr

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

const (
	dotnetExecutable = "dotnet.exe"
	libraryName      = "hostfxr.dll"
)

// defaultInstallLocations returns the registered install location followed by
// %ProgramFiles%\dotnet.
func defaultInstallLocations(lookupEnv func(string) (string, bool)) []string {
	var dirs []string
	if dir := registeredInstallLocation(); dir != "" {
		dirs = append(dirs, dir)
	}
	if pf, ok := lookupEnv("ProgramFiles"); ok && pf != "" {
		dirs = append(dirs, filepath.Join(pf, "dotnet"))
	}
	return dirs
}

func registeredInstallLocation() string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\dotnet\Setup\InstalledVersions\`+archName(),
		registry.QUERY_VALUE|registry.WOW64_32KEY)
	if err != nil {
		return ""
	}
	defer key.Close()

	dir, _, err := key.GetStringValue("InstallLocation")
	if err != nil {
		return ""
	}
	return dir
}
