//go:build darwin
// +build darwin

package sysinfo

import (
	"fmt"
	"os/exec"
	"strings"
)

// ProductVersion returns the macOS product version, e.g. "14.4.1".
func ProductVersion() (string, error) {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run sw_vers: %w", err)
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "", fmt.Errorf("sw_vers returned an empty version")
	}
	return v, nil
}
