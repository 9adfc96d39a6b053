package bridge

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/dixieflatline76/wallbridge/pkg/wallpaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var nilRect *image.Rectangle

func newTestHost() (*Host, *MockInstaller, *trackingFS) {
	inst := new(MockInstaller)
	fs := &trackingFS{}
	return NewHost(fs, inst), inst, fs
}

func TestSetWallpaper_MissingPath(t *testing.T) {
	cases := map[string]map[string]any{
		"nil args":    nil,
		"no path key": {"other": "x"},
		"null path":   {"path": nil},
		"empty path":  {"path": ""},
		"wrong type":  {"path": 42},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			h, inst, fs := newTestHost()

			r := h.Handle(MethodSetWallpaper, args)

			assert.Equal(t, StatusError, r.Status)
			assert.Equal(t, CodeInvalidArgument, r.Code)
			assert.Equal(t, "Path cannot be null.", r.Message)
			inst.AssertNotCalled(t, "SetStream", mock.Anything, mock.Anything, mock.Anything)
			assert.Zero(t, fs.opened.Load())
		})
	}
}

func TestSetWallpaper_ValidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunset.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0644))

	h, inst, fs := newTestHost()
	inst.On("SetStream", nilRect, true, wallpaper.TargetSystem).Return(nil).Once()

	r := h.Handle(MethodSetWallpaper, map[string]any{"path": path})

	assert.Equal(t, Success(true), r)
	inst.AssertExpectations(t)
	assert.Equal(t, "jpeg bytes", string(inst.read))
	assert.EqualValues(t, 1, fs.opened.Load())
	assert.EqualValues(t, 1, fs.closed.Load())
}

func TestSetWallpaper_FileURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))

	h, inst, _ := newTestHost()
	inst.On("SetStream", nilRect, true, wallpaper.TargetSystem).Return(nil)

	r := h.Handle(MethodSetWallpaper, map[string]any{"path": "file://" + filepath.ToSlash(path)})

	assert.Equal(t, Success(true), r)
	assert.Equal(t, "png", string(inst.read))
}

func TestSetWallpaper_NonexistentFile(t *testing.T) {
	h, inst, fs := newTestHost()

	r := h.Handle(MethodSetWallpaper, map[string]any{"path": filepath.Join(t.TempDir(), "missing.jpg")})

	assert.Equal(t, Success(false), r)
	inst.AssertNotCalled(t, "SetStream", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, fs.opened.Load(), fs.closed.Load())
}

func TestSetWallpaper_InstallFailureReleasesStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	h, inst, fs := newTestHost()
	inst.On("SetStream", nilRect, true, wallpaper.TargetSystem).Return(errors.New("decode failed"))

	r := h.Handle(MethodSetWallpaper, map[string]any{"path": path})

	assert.Equal(t, Success(false), r)
	assert.EqualValues(t, 1, fs.opened.Load())
	assert.EqualValues(t, 1, fs.closed.Load())
}

func TestSetWallpaper_PanicStillReleasesStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	h, inst, fs := newTestHost()
	inst.On("SetStream", nilRect, true, wallpaper.TargetSystem).Panic("installer crashed")

	assert.Panics(t, func() { h.SetWallpaper(path) })
	assert.EqualValues(t, 1, fs.closed.Load())
}

func TestListFiles_Entries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), nil, 0644))

	h, _, _ := newTestHost()
	r := h.Handle(MethodListFiles, map[string]any{"path": dir})

	require.Equal(t, StatusSuccess, r.Status)
	assert.ElementsMatch(t, []string{"a.jpg", "b.png"}, r.Value)
}

func TestListFiles_NotRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "album", "inner.jpg"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.jpg"), nil, 0644))

	h, _, _ := newTestHost()
	names := h.ListFiles(dir)

	assert.ElementsMatch(t, []string{"album", "top.jpg"}, names)
}

func TestListFiles_EmptyDirectory(t *testing.T) {
	h, _, _ := newTestHost()
	r := h.Handle(MethodListFiles, map[string]any{"path": t.TempDir()})

	assert.Equal(t, Success([]string{}), r)
}

func TestListFiles_MissingOrNotDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	h, _, _ := newTestHost()

	for _, p := range []string{filepath.Join(dir, "does-not-exist"), file} {
		r := h.Handle(MethodListFiles, map[string]any{"path": p})
		assert.Equal(t, StatusSuccess, r.Status, p)
		assert.NotNil(t, r.Value, p)
		assert.Empty(t, r.Value, p)
	}
}

func TestListFiles_MissingPath(t *testing.T) {
	h, _, _ := newTestHost()
	r := h.Handle(MethodListFiles, map[string]any{})

	assert.Equal(t, Error(CodeInvalidArgument, "Path cannot be null.", nil), r)
}

func TestHandle_UnknownMethod(t *testing.T) {
	h, inst, _ := newTestHost()

	r := h.Handle("getWallpaper", map[string]any{"path": "/tmp"})

	assert.True(t, r.IsNotImplemented())
	inst.AssertNotCalled(t, "SetStream", mock.Anything, mock.Anything, mock.Anything)
}
