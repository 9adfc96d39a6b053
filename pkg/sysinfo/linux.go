//go:build linux
// +build linux

package sysinfo

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Desktop describes the running desktop session.
type Desktop struct {
	Name    string // lower-cased XDG_CURRENT_DESKTOP or DESKTOP_SESSION
	Wayland bool
}

// Is reports whether the desktop name mentions any of the given names.
func (d Desktop) Is(names ...string) bool {
	for _, n := range names {
		if strings.Contains(d.Name, n) {
			return true
		}
	}
	return false
}

// DetectDesktop reads the desktop session from the environment.
func DetectDesktop() Desktop {
	desktopEnv := os.Getenv("XDG_CURRENT_DESKTOP")
	if desktopEnv == "" {
		desktopEnv = os.Getenv("DESKTOP_SESSION")
	}
	return Desktop{
		Name:    strings.ToLower(desktopEnv),
		Wayland: os.Getenv("WAYLAND_DISPLAY") != "",
	}
}

// GNOMEShellVersion returns the running GNOME Shell version, e.g. "42.5".
func GNOMEShellVersion() (string, error) {
	out, err := exec.Command("gnome-shell", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run gnome-shell: %w", err)
	}
	return parseGNOMEVersion(string(out))
}

// parseGNOMEVersion extracts the version from output like "GNOME Shell 42.5".
func parseGNOMEVersion(out string) (string, error) {
	fields := strings.Fields(out)
	for i, f := range fields {
		if f == "Shell" && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	return "", fmt.Errorf("failed to parse gnome-shell version from %q", strings.TrimSpace(out))
}
