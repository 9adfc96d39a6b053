package config

import "strings"

// AppVersion is the version of the service.
var AppVersion = "0.1.0" // Overridden with -ldflags during release builds

// AppName is the name of the service.
const AppName = "WallBridge"

// ServiceName is the name used for lock files and the config directory.
var ServiceName = strings.ToLower(AppName)

// DefaultChannel is the message channel the front-end talks to.
const DefaultChannel = "com.example/wallpaper"

// DefaultListenAddr is the loopback address the bridge listens on.
const DefaultListenAddr = "127.0.0.1:49452"

// StagingSubDir is the sub directory of the user cache dir for staged wallpapers.
const StagingSubDir = "staged"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + ServiceName

// LogExt is the extension for the log files.
var LogExt = ".log"
