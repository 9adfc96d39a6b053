//go:build windows
// +build windows

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// WindowsVersion returns the real OS version as "major.minor.build".
// RtlGetVersion reports the real version regardless of the application manifest.
func WindowsVersion() string {
	v := windows.RtlGetVersion()
	return fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber)
}
