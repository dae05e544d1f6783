package state

import (
	"database/sql"
	"errors"
)

const keyPlaylistsPath = "playlists_path"

// GetPlaylistsPath returns the last playlists directory saved, or "" if
// none was.
func (m *Manager) GetPlaylistsPath() (string, error) {
	return getSetting(m.db, keyPlaylistsPath)
}

// SavePlaylistsPath remembers the playlists directory for the next session.
func (m *Manager) SavePlaylistsPath(path string) error {
	return saveSetting(m.db, keyPlaylistsPath, path)
}

func getSetting(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func saveSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
