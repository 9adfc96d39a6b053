package bridge

import (
	"image"
	"io"
	"sync/atomic"

	"github.com/dixieflatline76/wallbridge/pkg/wallpaper"
	"github.com/stretchr/testify/mock"
)

// MockInstaller is a mock implementation of the Installer interface. It
// drains the stream so tests can check what was read.
type MockInstaller struct {
	mock.Mock
	read []byte
}

func (m *MockInstaller) SetStream(r io.Reader, cropHint *image.Rectangle, applyImmediately bool, target wallpaper.Target) error {
	m.read, _ = io.ReadAll(r)
	args := m.Called(cropHint, applyImmediately, target)
	return args.Error(0)
}

// trackingFS wraps OSFileSystem and counts open and closed streams.
type trackingFS struct {
	OSFileSystem
	opened atomic.Int32
	closed atomic.Int32
}

func (t *trackingFS) Open(path string) (io.ReadCloser, error) {
	rc, err := t.OSFileSystem.Open(path)
	if err != nil {
		return nil, err
	}
	t.opened.Add(1)
	return &trackingCloser{ReadCloser: rc, fs: t}, nil
}

type trackingCloser struct {
	io.ReadCloser
	fs *trackingFS
}

func (c *trackingCloser) Close() error {
	c.fs.closed.Add(1)
	return c.ReadCloser.Close()
}
