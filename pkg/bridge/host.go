package bridge

import (
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/dixieflatline76/wallbridge/pkg/wallpaper"
	"github.com/dixieflatline76/wallbridge/util/log"
)

// Method names understood by the Host.
const (
	MethodSetWallpaper = "setWallpaper"
	MethodListFiles    = "listFiles"
)

// ArgPath is the argument key both methods read.
const ArgPath = "path"

// CodeInvalidArgument is the error code for a missing or malformed argument.
const CodeInvalidArgument = "INVALID_ARGUMENT"

const msgPathRequired = "Path cannot be null."

// Installer installs a wallpaper from a byte stream. wallpaper.StreamInstaller
// is the production implementation.
type Installer interface {
	SetStream(r io.Reader, cropHint *image.Rectangle, applyImmediately bool, target wallpaper.Target) error
}

// Host answers setWallpaper and listFiles calls.
type Host struct {
	fs        FileSystem
	installer Installer
}

// NewHost creates a Host backed by fs and installer.
func NewHost(fs FileSystem, installer Installer) *Host {
	return &Host{fs: fs, installer: installer}
}

// Handle dispatches a call by method name.
func (h *Host) Handle(method string, args map[string]any) Result {
	switch method {
	case MethodSetWallpaper:
		path, ok := pathArg(args)
		if !ok {
			return Error(CodeInvalidArgument, msgPathRequired, nil)
		}
		return Success(h.SetWallpaper(path))
	case MethodListFiles:
		path, ok := pathArg(args)
		if !ok {
			return Error(CodeInvalidArgument, msgPathRequired, nil)
		}
		return Success(h.ListFiles(path))
	default:
		return NotImplemented()
	}
}

// SetWallpaper installs the image at path as the home screen wallpaper.
// Failures are logged and reported as false.
func (h *Host) SetWallpaper(path string) bool {
	stream, err := h.fs.Open(path)
	if err != nil {
		log.Printf("setWallpaper: failed to open %s: %v", path, err)
		return false
	}
	defer stream.Close()

	if err := h.installer.SetStream(stream, nil, true, wallpaper.TargetSystem); err != nil {
		log.Printf("setWallpaper: failed to install %s: %v", path, err)
		return false
	}
	return true
}

// ListFiles returns the names of the immediate entries of the directory at
// path. The order is unspecified. A missing path or a non-directory yields an
// empty list.
func (h *Host) ListFiles(path string) []string {
	names, err := h.fs.ReadDirNames(path)
	if err != nil {
		log.Debugf("listFiles: %s: %v", path, err)
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// pathArg extracts a non-empty path argument. file:// URIs are converted to
// plain paths.
func pathArg(args map[string]any) (string, bool) {
	path, ok := args[ArgPath].(string)
	if !ok || path == "" {
		return "", false
	}
	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	return path, true
}
