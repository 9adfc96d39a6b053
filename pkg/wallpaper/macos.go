//go:build darwin
// +build darwin

package wallpaper

import (
	"fmt"
	"strings"

	"github.com/dixieflatline76/wallbridge/pkg/sysinfo"
	"github.com/dixieflatline76/wallbridge/util/log"
)

// systemEventsVersion is the first macOS release where System Events can
// address every desktop.
const systemEventsVersion = "10.9"

// DetectStrategy returns the System Events backend on current macOS and the
// Finder backend on older releases.
func DetectStrategy() Strategy {
	var s Strategy = finderStrategy{}
	if v, err := sysinfo.ProductVersion(); err != nil {
		log.Printf("Could not detect macOS version, using Finder: %v", err)
	} else if sysinfo.AtLeast(v, systemEventsVersion) {
		s = systemEventsStrategy{}
	}
	log.Printf("Wallpaper strategy: %s", s.Name())
	return s
}

func appleScriptString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// systemEventsStrategy sets the picture of every desktop.
type systemEventsStrategy struct{}

func (systemEventsStrategy) Name() string {
	return "macos-system-events"
}

func (systemEventsStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to POSIX file "%s"`, appleScriptString(path))
	return runCommand("osascript", "-e", script)
}

// finderStrategy sets the desktop picture through Finder.
type finderStrategy struct{}

func (finderStrategy) Name() string {
	return "macos-finder"
}

func (finderStrategy) Apply(path string, target Target, _ bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}
	script := fmt.Sprintf(`tell application "Finder" to set desktop picture to POSIX file "%s"`, appleScriptString(path))
	return runCommand("osascript", "-e", script)
}
