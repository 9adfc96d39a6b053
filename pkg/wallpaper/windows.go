//go:build windows
// +build windows

package wallpaper

import (
	"fmt"
	"unsafe"

	"github.com/dixieflatline76/wallbridge/pkg/sysinfo"
	"github.com/dixieflatline76/wallbridge/util/log"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	systemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// Windows API constants (defined manually)
const (
	SPISetDeskWallpaper = 0x0014
	SPIFUpdateIniFile   = 0x01
	SPIFSendChange      = 0x02
)

// broadcastVersion is Windows 8, where the change broadcast refreshes every monitor.
const broadcastVersion = "6.2"

// DetectStrategy returns the SystemParametersInfoW backend for this Windows release.
func DetectStrategy() Strategy {
	s := spiStrategy{broadcast: sysinfo.AtLeast(sysinfo.WindowsVersion(), broadcastVersion)}
	log.Printf("Wallpaper strategy: %s", s.Name())
	return s
}

// spiStrategy sets the wallpaper with SystemParametersInfoW.
type spiStrategy struct {
	broadcast bool
}

func (s spiStrategy) Name() string {
	if s.broadcast {
		return "windows-spi"
	}
	return "windows-spi-legacy"
}

func (s spiStrategy) Apply(path string, target Target, applyImmediately bool) error {
	if err := checkTarget(target, TargetSystem); err != nil {
		return err
	}

	pathUTF16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	flags := uintptr(SPIFUpdateIniFile)
	if s.broadcast && applyImmediately {
		flags |= SPIFSendChange
	}

	ret, _, err := systemParametersInfo.Call(
		uintptr(SPISetDeskWallpaper),
		uintptr(0),
		uintptr(unsafe.Pointer(pathUTF16)),
		flags,
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfoW: %w", err)
	}
	return nil
}
