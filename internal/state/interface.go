package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetPlaylistsPath() (string, error)
	SavePlaylistsPath(path string) error
	RecordRun(r Run) error
	RecentRuns(limit int) ([]Run, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
