// Package sysinfo detects the platform capabilities the wallpaper backends
// are selected from.
package sysinfo

import (
	"strings"

	"golang.org/x/mod/semver"
)

// canonical turns "42.5", "v10.15.7" or "44.rc" into a semver string made of
// the leading numeric components. Pre-release suffixes are dropped.
func canonical(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")

	var parts []string
	for _, p := range strings.SplitN(version, ".", 3) {
		digits := p
		if i := strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
			digits = p[:i]
		}
		if digits == "" {
			break
		}
		parts = append(parts, digits)
		if digits != p {
			break
		}
	}
	return "v" + strings.Join(parts, ".")
}

// AtLeast reports whether version is greater than or equal to minimum.
// Versions that do not parse are treated as older than anything.
func AtLeast(version, minimum string) bool {
	v := canonical(version)
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, canonical(minimum)) >= 0
}
