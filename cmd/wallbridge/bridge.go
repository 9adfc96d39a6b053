package main

import (
	"github.com/dixieflatline76/wallbridge/config"
	"github.com/dixieflatline76/wallbridge/pkg/bridge"
	"github.com/dixieflatline76/wallbridge/pkg/wallpaper"
)

// detectStrategy is replaced in tests to keep the real desktop untouched.
var detectStrategy = wallpaper.DetectStrategy

// newHost wires the bridge to the host filesystem and the detected wallpaper backend.
func newHost(cfg *config.Config) (*bridge.Host, *wallpaper.StreamInstaller) {
	installer := wallpaper.NewStreamInstaller(cfg.StagingDir, detectStrategy())
	return bridge.NewHost(bridge.OSFileSystem{}, installer), installer
}
