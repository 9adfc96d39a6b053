//go:build !windows
// +build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dixieflatline76/wallbridge/config"
	"github.com/dixieflatline76/wallbridge/util/log"
	"golang.org/x/sys/unix"
)

var (
	lockFile *os.File
	lockDir  = os.TempDir()
)

// acquireLock tries to acquire a single-instance lock (file lock on Unix).
func acquireLock() (bool, error) {
	lockFilePath := filepath.Join(lockDir, config.ServiceName+".lock")
	file, err := os.OpenFile(lockFilePath, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			// Another instance is running, lock is BUSY
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	lockFile = file
	return true, nil
}

// releaseLock releases the single-instance lock. The lock file stays in place
// so every instance locks the same inode.
func releaseLock() {
	if lockFile == nil {
		return
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_UN); err != nil {
		log.Printf("Failed to release lock: %v", err)
	}
	lockFile.Close()
	lockFile = nil
}
