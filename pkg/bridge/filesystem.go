package bridge

import (
	"io"
	"os"
)

// FileSystem is the slice of the host filesystem the bridge reads from.
type FileSystem interface {
	// Open opens the file at path for reading.
	Open(path string) (io.ReadCloser, error)
	// ReadDirNames returns the names of the immediate entries of the
	// directory at path, in the order the filesystem yields them.
	ReadDirNames(path string) ([]string, error)
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// Open opens path with os.Open.
func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ReadDirNames lists a directory without sorting it. Unlike os.ReadDir, the
// enumeration order is left as the filesystem returns it.
func (OSFileSystem) ReadDirNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}
