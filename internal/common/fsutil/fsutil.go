package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/mps
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// IsExecutableFile reports whether path names an existing regular file.
// It does not spawn anything; a stat is the whole preflight.
func IsExecutableFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ErrOutsideRoot is returned by ResolveWithin when the requested name
// escapes the root directory.
var ErrOutsideRoot = errors.New("path escapes the mount root")

// ResolveWithin joins name onto root and rejects results that escape it.
// The returned path is cleaned and absolute relative to root; existence
// is not checked here.
func ResolveWithin(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	cleanRoot := filepath.Clean(root)
	p := filepath.Clean(filepath.Join(cleanRoot, name))
	if p != cleanRoot && !strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return p, nil
}
