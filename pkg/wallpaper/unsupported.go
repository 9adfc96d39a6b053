//go:build !linux && !darwin && !windows

package wallpaper

// DetectStrategy returns a strategy that reports the platform as unsupported.
func DetectStrategy() Strategy {
	return unsupportedStrategy{}
}
