// Package crates provisions the crates directory tree and copies tracks
// into their buckets.
//
// Layout under the desktop:
//
//	<desktop>/<root>/<bucket>/<file>              matched tracks
//	<desktop>/<root>/<unsorted>/<genre>/<file>    everything else
package crates

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Default directory names.
const (
	DefaultRootName     = "Crates"
	DefaultUnsortedName = "Unsorted"
)

// bucketSuffix is removed from bucket names to form folder names.
const bucketSuffix = ".txt"

// Placement describes one copied track.
type Placement struct {
	DestPath string
	Bytes    int64
}

// Executor copies tracks into a crates root.
type Executor struct {
	rootName     string
	unsortedName string
}

// New creates an Executor. Empty names fall back to the defaults.
func New(rootName, unsortedName string) *Executor {
	if rootName == "" {
		rootName = DefaultRootName
	}
	if unsortedName == "" {
		unsortedName = DefaultUnsortedName
	}
	return &Executor{rootName: rootName, unsortedName: unsortedName}
}

// Root returns the crates root path under desktop.
func (e *Executor) Root(desktop string) string {
	return filepath.Join(desktop, e.rootName)
}

// ProvisionRoot creates the crates root under desktop, including missing
// parents, and returns its path. It succeeds if the root already exists.
func (e *Executor) ProvisionRoot(desktop string) (string, error) {
	root := e.Root(desktop)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create crates root: %w", err)
	}
	return root, nil
}

// FolderName derives a folder name from a bucket name by removing every
// literal ".txt" substring. Other extensions and other letter cases are
// left alone.
func FolderName(bucket string) string {
	return strings.ReplaceAll(bucket, bucketSuffix, "")
}

// Copy copies src into root/<FolderName(bucket)>, keeping its file name.
// An existing file of the same name is overwritten.
func (e *Executor) Copy(bucket, src, root string) (Placement, error) {
	return copyInto(filepath.Join(root, FolderName(bucket)), src)
}

// CopyUnsorted copies src into root/<unsorted>/<genre>, keeping its file
// name. Path separators in genre are replaced so the track stays inside the
// unsorted area.
func (e *Executor) CopyUnsorted(genre, src, root string) (Placement, error) {
	return copyInto(filepath.Join(root, e.unsortedName, genreFolder(genre)), src)
}

// genreFolder makes a tag genre usable as a single path element.
func genreFolder(genre string) string {
	name := FolderName(genre)
	name = strings.NewReplacer("/", "-", `\`, "-").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func copyInto(destDir, src string) (Placement, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Placement{}, fmt.Errorf("create directory: %w", err)
	}

	destPath := filepath.Join(destDir, filepath.Base(src))
	n, err := copyFile(src, destPath)
	if err != nil {
		return Placement{}, fmt.Errorf("copy file: %w", err)
	}
	return Placement{DestPath: destPath, Bytes: n}, nil
}

// copyFile copies a file from src to dst, truncating dst if it exists.
// The source permission bits are kept for newly created files.
func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer dstFile.Close()

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		return n, err
	}

	return n, dstFile.Close()
}
