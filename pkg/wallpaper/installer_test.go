package wallpaper

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, stagedPrefix+"*"+stagedExt))
	require.NoError(t, err)
	return matches
}

func TestSetStream_AppliesStagedImage(t *testing.T) {
	dir := t.TempDir()
	strategy := new(MockStrategy)
	strategy.On("Apply", mock.AnythingOfType("string"), TargetSystem, true).Return(nil).Once()

	inst := NewStreamInstaller(dir, strategy)
	err := inst.SetStream(bytes.NewReader(pngBytes(t, 40, 30)), nil, true, TargetSystem)
	require.NoError(t, err)

	strategy.AssertExpectations(t)
	require.Len(t, strategy.Calls, 1)
	assert.Equal(t, []bool{true}, strategy.existed)

	applied := strategy.Calls[0].Arguments.String(0)
	assert.True(t, filepath.IsAbs(applied))
	assert.True(t, strings.HasPrefix(filepath.Base(applied), stagedPrefix))

	staged, err := imaging.Open(applied)
	require.NoError(t, err)
	assert.Equal(t, 40, staged.Bounds().Dx())
	assert.Equal(t, 30, staged.Bounds().Dy())
}

func TestSetStream_RemovesPreviousStagedImage(t *testing.T) {
	dir := t.TempDir()
	strategy := new(MockStrategy)
	strategy.On("Apply", mock.Anything, TargetSystem, true).Return(nil)

	inst := NewStreamInstaller(dir, strategy)
	require.NoError(t, inst.SetStream(bytes.NewReader(pngBytes(t, 8, 8)), nil, true, TargetSystem))
	require.NoError(t, inst.SetStream(bytes.NewReader(pngBytes(t, 8, 8)), nil, true, TargetSystem))

	files := stagedFiles(t, dir)
	require.Len(t, files, 1)
	assert.Equal(t, strategy.Calls[1].Arguments.String(0), files[0])
}

func TestSetStream_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	strategy := new(MockStrategy)

	inst := NewStreamInstaller(dir, strategy)
	err := inst.SetStream(strings.NewReader("definitely not pixels"), nil, true, TargetSystem)

	assert.ErrorIs(t, err, ErrNotAnImage)
	strategy.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, stagedFiles(t, dir))
}

func TestSetStream_NilReader(t *testing.T) {
	inst := NewStreamInstaller(t.TempDir(), new(MockStrategy))
	assert.Error(t, inst.SetStream(nil, nil, true, TargetSystem))
}

func TestSetStream_StrategyFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("gsettings exploded")
	strategy := new(MockStrategy)
	strategy.On("Apply", mock.Anything, TargetSystem, true).Return(boom)

	inst := NewStreamInstaller(dir, strategy)
	err := inst.SetStream(bytes.NewReader(pngBytes(t, 4, 4)), nil, true, TargetSystem)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mock")
	assert.Empty(t, stagedFiles(t, dir))
}

func TestSetStream_CropHint(t *testing.T) {
	dir := t.TempDir()
	strategy := new(MockStrategy)
	strategy.On("Apply", mock.Anything, TargetSystem, false).Return(nil)

	inst := NewStreamInstaller(dir, strategy)
	hint := image.Rect(10, 5, 30, 15)
	require.NoError(t, inst.SetStream(bytes.NewReader(pngBytes(t, 40, 30)), &hint, false, TargetSystem))

	staged, err := imaging.Open(strategy.Calls[0].Arguments.String(0))
	require.NoError(t, err)
	assert.Equal(t, 20, staged.Bounds().Dx())
	assert.Equal(t, 10, staged.Bounds().Dy())
}

func TestSetStream_CropHintOutOfBounds(t *testing.T) {
	strategy := new(MockStrategy)
	inst := NewStreamInstaller(t.TempDir(), strategy)

	hint := image.Rect(100, 100, 200, 200)
	err := inst.SetStream(bytes.NewReader(pngBytes(t, 10, 10)), &hint, true, TargetSystem)

	assert.Error(t, err)
	strategy.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestPruneStaged_KeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, stagedPrefix+"stale"+stagedExt)
	other := filepath.Join(dir, "unrelated.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	strategy := new(MockStrategy)
	strategy.On("Apply", mock.Anything, TargetSystem, true).Return(nil)
	inst := NewStreamInstaller(dir, strategy)
	require.NoError(t, inst.SetStream(bytes.NewReader(pngBytes(t, 4, 4)), nil, true, TargetSystem))

	require.NoError(t, inst.PruneStaged())

	assert.NoFileExists(t, stale)
	assert.FileExists(t, other)
	assert.FileExists(t, strategy.Calls[0].Arguments.String(0))
}

func TestPruneStaged_MissingDir(t *testing.T) {
	inst := NewStreamInstaller(filepath.Join(t.TempDir(), "missing"), new(MockStrategy))
	assert.NoError(t, inst.PruneStaged())
}

func TestCheckTarget(t *testing.T) {
	assert.NoError(t, checkTarget(TargetSystem, TargetSystem))
	assert.NoError(t, checkTarget(0, TargetSystem))
	assert.ErrorIs(t, checkTarget(TargetLock, TargetSystem), ErrUnsupportedTarget)
	assert.ErrorIs(t, checkTarget(TargetSystem|TargetLock, TargetSystem), ErrUnsupportedTarget)
	assert.NoError(t, checkTarget(TargetSystem|TargetLock, TargetSystem|TargetLock))
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "system", TargetSystem.String())
	assert.Equal(t, "system|lock", (TargetSystem | TargetLock).String())
	assert.Equal(t, "none", Target(0).String())
}

func TestUnsupportedStrategy(t *testing.T) {
	err := unsupportedStrategy{desktop: "twm"}.Apply("/tmp/x.jpg", TargetSystem, true)
	assert.ErrorIs(t, err, ErrUnsupportedDesktop)
	assert.Contains(t, err.Error(), "twm")
}

// gatedStrategy blocks its first Apply until release is closed.
type gatedStrategy struct {
	entered chan struct{}
	release chan struct{}

	mu      sync.Mutex
	applied []string
}

func (g *gatedStrategy) Name() string { return "gated" }

func (g *gatedStrategy) Apply(path string, _ Target, _ bool) error {
	g.mu.Lock()
	first := len(g.applied) == 0
	g.applied = append(g.applied, path)
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
	}
	return nil
}

func TestSetStream_ConcurrentCallsKeepLastApplied(t *testing.T) {
	dir := t.TempDir()
	strategy := &gatedStrategy{entered: make(chan struct{}), release: make(chan struct{})}
	inst := NewStreamInstaller(dir, strategy)
	img := pngBytes(t, 6, 6)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- inst.SetStream(bytes.NewReader(img), nil, true, TargetSystem)
	}()
	<-strategy.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- inst.SetStream(bytes.NewReader(img), nil, true, TargetSystem)
	}()
	// Give the second call time to stage its file and reach Apply.
	time.Sleep(50 * time.Millisecond)
	close(strategy.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	strategy.mu.Lock()
	applied := append([]string(nil), strategy.applied...)
	strategy.mu.Unlock()
	require.Len(t, applied, 2)

	last := applied[len(applied)-1]
	assert.FileExists(t, last, "the wallpaper applied last must stay on disk")
	assert.Equal(t, []string{last}, stagedFiles(t, dir))
}

func TestNewStreamInstaller_RestartKeepsCurrentWallpaper(t *testing.T) {
	dir := t.TempDir()
	first := new(MockStrategy)
	first.On("Apply", mock.Anything, TargetSystem, true).Return(nil)
	require.NoError(t, NewStreamInstaller(dir, first).SetStream(bytes.NewReader(pngBytes(t, 4, 4)), nil, true, TargetSystem))
	active := first.Calls[0].Arguments.String(0)

	stale := filepath.Join(dir, stagedPrefix+"stale"+stagedExt)
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	restarted := NewStreamInstaller(dir, new(MockStrategy))
	require.NoError(t, restarted.PruneStaged())

	assert.FileExists(t, active)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, currentMarker))
}

func TestNewStreamInstaller_NextRunRemovesPreviousWallpaper(t *testing.T) {
	dir := t.TempDir()
	first := new(MockStrategy)
	first.On("Apply", mock.Anything, TargetSystem, true).Return(nil)
	require.NoError(t, NewStreamInstaller(dir, first).SetStream(bytes.NewReader(pngBytes(t, 4, 4)), nil, true, TargetSystem))

	second := new(MockStrategy)
	second.On("Apply", mock.Anything, TargetSystem, true).Return(nil)
	require.NoError(t, NewStreamInstaller(dir, second).SetStream(bytes.NewReader(pngBytes(t, 4, 4)), nil, true, TargetSystem))

	assert.NoFileExists(t, first.Calls[0].Arguments.String(0))
	assert.Equal(t, []string{second.Calls[0].Arguments.String(0)}, stagedFiles(t, dir))
}

func TestNewStreamInstaller_IgnoresBadMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, currentMarker), []byte("../../etc/passwd\n"), 0644))

	inst := NewStreamInstaller(dir, new(MockStrategy))
	assert.Empty(t, inst.lastStaged)
}
