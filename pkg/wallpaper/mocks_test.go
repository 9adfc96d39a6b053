package wallpaper

import (
	"os"

	"github.com/stretchr/testify/mock"
)

// MockStrategy is a mock implementation of the Strategy interface.
type MockStrategy struct {
	mock.Mock
	// existed records whether each applied file was on disk at Apply time.
	existed []bool
}

func (m *MockStrategy) Name() string {
	return "mock"
}

func (m *MockStrategy) Apply(path string, target Target, applyImmediately bool) error {
	_, err := os.Stat(path)
	m.existed = append(m.existed, err == nil)
	args := m.Called(path, target, applyImmediately)
	return args.Error(0)
}
