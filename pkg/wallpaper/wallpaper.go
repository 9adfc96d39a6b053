// Package wallpaper installs images as the host desktop wallpaper.
//
// A StreamInstaller decodes and stages the incoming image, then hands the
// staged file to a platform Strategy. The Strategy is picked once by
// DetectStrategy from the capabilities of the running desktop.
package wallpaper

import (
	"errors"
	"fmt"
	"strings"
)

// Target selects which surface a wallpaper is applied to.
type Target int

const (
	// TargetSystem is the desktop / home screen background.
	TargetSystem Target = 1 << iota
	// TargetLock is the lock screen background.
	TargetLock
)

// String returns a readable form of the target flags.
func (t Target) String() string {
	var parts []string
	if t&TargetSystem != 0 {
		parts = append(parts, "system")
	}
	if t&TargetLock != 0 {
		parts = append(parts, "lock")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

var (
	// ErrUnsupportedTarget is returned when a strategy cannot address the requested target.
	ErrUnsupportedTarget = errors.New("wallpaper target not supported on this platform")
	// ErrNotAnImage is returned when the stream cannot be decoded as an image.
	ErrNotAnImage = errors.New("stream is not a decodable image")
	// ErrUnsupportedDesktop is returned by the fallback strategy.
	ErrUnsupportedDesktop = errors.New("unsupported desktop environment")
)

// Strategy applies an already staged image file to the desktop.
type Strategy interface {
	// Name identifies the strategy in logs and health output.
	Name() string
	// Apply installs the file at path on the given target.
	Apply(path string, target Target, applyImmediately bool) error
}

// checkTarget rejects targets outside of supported. A zero target means TargetSystem.
func checkTarget(target, supported Target) error {
	if target == 0 {
		target = TargetSystem
	}
	if target&^supported != 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}
	return nil
}

// unsupportedStrategy is selected when no backend matches the running desktop.
type unsupportedStrategy struct {
	desktop string
}

func (u unsupportedStrategy) Name() string {
	return "unsupported"
}

func (u unsupportedStrategy) Apply(string, Target, bool) error {
	if u.desktop == "" {
		return ErrUnsupportedDesktop
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedDesktop, u.desktop)
}
