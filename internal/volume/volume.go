// Package volume locates the directories a run works between: the mounted
// Rekordbox export volume, the user's desktop and the playlist export folder.
package volume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/shirou/gopsutil/v4/disk"
)

// DefaultPlaylistsDir is the playlist folder looked up in the working
// directory when none is configured.
const DefaultPlaylistsDir = "Playlists"

// ErrNoDrive is returned when no mounted volume carries the markers.
var ErrNoDrive = errors.New("no drive detected")

// mountPoints lists the mount points of all mounted partitions.
var mountPoints = func() ([]string, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}
	mounts := make([]string, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, p.Mountpoint)
	}
	return mounts, nil
}

// FindSource returns the first mount point that contains every marker
// directory.
func FindSource(markers []string) (string, error) {
	mounts, err := mountPoints()
	if err != nil {
		return "", fmt.Errorf("list partitions: %w", err)
	}
	return firstWithMarkers(mounts, markers)
}

func firstWithMarkers(roots, markers []string) (string, error) {
	for _, root := range roots {
		if HasMarkers(root, markers) {
			return root, nil
		}
	}
	return "", ErrNoDrive
}

// HasMarkers reports whether root contains a directory for every marker.
// An empty marker list never matches.
func HasMarkers(root string, markers []string) bool {
	if root == "" || len(markers) == 0 {
		return false
	}
	for _, m := range markers {
		info, err := os.Stat(filepath.Join(root, m))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// Desktop returns the user's desktop directory.
func Desktop() (string, error) {
	if xdg.UserDirs.Desktop == "" {
		return "", errors.New("desktop directory unknown")
	}
	return xdg.UserDirs.Desktop, nil
}

// PlaylistsPath picks the playlist folder: the flag, then the configured
// path, then DefaultPlaylistsDir if it exists in the working directory.
// Returns "" when none applies.
func PlaylistsPath(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if configured != "" {
		return configured
	}
	if info, err := os.Stat(DefaultPlaylistsDir); err == nil && info.IsDir() {
		return DefaultPlaylistsDir
	}
	return ""
}
