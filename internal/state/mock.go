package state

import "sync"

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu            sync.Mutex
	playlistsPath string
	runs          []Run
	closed        bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetPlaylistsPath() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlistsPath, nil
}

func (m *Mock) SavePlaylistsPath(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlistsPath = path
	return nil
}

func (m *Mock) RecordRun(r Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append([]Run{r}, m.runs...)
	return nil
}

func (m *Mock) RecentRuns(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := min(max(limit, 0), len(m.runs))
	return append([]Run(nil), m.runs[:n]...), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Interface = (*Mock)(nil)
