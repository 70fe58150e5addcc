package runner

import (
	"path/filepath"
	"runtime"
)

// launchers maps an operating system family to the toolkit launcher
// script relative to the installation root. Resolved once at startup
// instead of scattering GOOS conditionals through the supervisor.
var launchers = map[string]string{
	"windows": filepath.Join("bin", "dita.bat"),
}

// defaultLauncher is used for every OS family without a dedicated entry.
var defaultLauncher = filepath.Join("bin", "dita")

// launcherFor returns the launcher script for the given GOOS value.
func launcherFor(goos string) string {
	if l, ok := launchers[goos]; ok {
		return l
	}
	return defaultLauncher
}

// launcherPath is the launcher for the current platform, resolved once.
var launcherPath = launcherFor(runtime.GOOS)
