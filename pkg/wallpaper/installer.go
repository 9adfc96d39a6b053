package wallpaper

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/google/uuid"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	stagedPrefix = "wallpaper-"
	stagedExt    = ".jpg"
	jpegQuality  = 95
	// currentMarker holds the base name of the staged file the desktop points at.
	currentMarker = "current"
)

// StreamInstaller installs wallpapers from byte streams.
type StreamInstaller struct {
	strategy   Strategy
	stagingDir string

	// mu serializes apply and rotate so the last applied file is the one kept.
	mu         sync.Mutex
	lastStaged string
}

// NewStreamInstaller creates an installer that stages images under stagingDir
// and applies them with strategy. The wallpaper recorded by an earlier run is
// picked up from the staging directory.
func NewStreamInstaller(stagingDir string, strategy Strategy) *StreamInstaller {
	s := &StreamInstaller{
		strategy:   strategy,
		stagingDir: stagingDir,
	}
	s.lastStaged = s.readCurrent()
	return s
}

// Strategy returns the platform strategy the installer applies images with.
func (s *StreamInstaller) Strategy() Strategy {
	return s.strategy
}

// SetStream decodes r as an image, crops it to cropHint when one is given, and
// installs it as the wallpaper on target. The caller owns r and closes it.
func (s *StreamInstaller) SetStream(r io.Reader, cropHint *image.Rectangle, applyImmediately bool, target Target) error {
	if r == nil {
		return errors.New("nil image stream")
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	if cropHint != nil {
		rect := cropHint.Intersect(img.Bounds())
		if rect.Empty() {
			return fmt.Errorf("crop hint %v lies outside image bounds %v", *cropHint, img.Bounds())
		}
		img = imaging.Crop(img, rect)
	}

	path, err := s.stage(img)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.strategy.Apply(path, target, applyImmediately); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", s.strategy.Name(), err)
	}
	log.Debugf("Applied %s via %s (target=%s)", path, s.strategy.Name(), target)

	s.rotateLocked(path)
	return nil
}

// stage writes img to a uniquely named file in the staging directory.
// Desktops that cache by URI only notice a change when the name changes.
func (s *StreamInstaller) stage(img image.Image) (string, error) {
	if err := os.MkdirAll(s.stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory %s: %w", s.stagingDir, err)
	}

	tmp, err := os.CreateTemp(s.stagingDir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode staged image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close staged image: %w", err)
	}

	path := filepath.Join(s.stagingDir, stagedPrefix+uuid.NewString()+stagedExt)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move staged image into place: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// rotateLocked records path as the current wallpaper and removes the
// previous one. s.mu must be held.
func (s *StreamInstaller) rotateLocked(path string) {
	previous := s.lastStaged
	s.lastStaged = path
	s.writeCurrent(path)

	if previous == "" || previous == path {
		return
	}
	if err := os.Remove(previous); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to remove previous staged wallpaper %s: %v", previous, err)
	}
}

// readCurrent returns the absolute path recorded in the current marker, or "".
func (s *StreamInstaller) readCurrent() string {
	data, err := os.ReadFile(filepath.Join(s.stagingDir, currentMarker))
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(string(data))
	if name == "" || name != filepath.Base(name) || !strings.HasPrefix(name, stagedPrefix) {
		return ""
	}
	path := filepath.Join(s.stagingDir, name)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// writeCurrent records path in the current marker.
func (s *StreamInstaller) writeCurrent(path string) {
	marker := filepath.Join(s.stagingDir, currentMarker)
	if err := os.WriteFile(marker, []byte(filepath.Base(path)+"\n"), 0644); err != nil {
		log.Printf("Failed to record current wallpaper: %v", err)
	}
}

// PruneStaged removes staged wallpapers left over from earlier runs, keeping
// the one currently applied, including one applied before a restart.
func (s *StreamInstaller) PruneStaged() error {
	entries, err := os.ReadDir(s.stagingDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read staging directory: %w", err)
	}

	s.mu.Lock()
	keep := s.lastStaged
	s.mu.Unlock()

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, stagedPrefix) {
			continue
		}
		full := filepath.Join(s.stagingDir, name)
		if abs, err := filepath.Abs(full); err == nil && abs == keep {
			continue
		}
		if err := os.Remove(full); err != nil {
			log.Printf("Failed to prune staged wallpaper %s: %v", full, err)
		}
	}
	return nil
}
