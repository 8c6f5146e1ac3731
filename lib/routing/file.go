// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package routing

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is the Xray configuration on disk.
type File struct {
	Path   string
	Domain string
}

// NewFile returns a File for path. An empty domain uses DefaultDomain.
func NewFile(path, domain string) *File {
	if domain == "" {
		domain = DefaultDomain
	}
	return &File{Path: path, Domain: domain}
}

// SetOutbound loads the file, points every eligible rule at tag, and
// writes the file back if any rule was eligible. It returns the number
// of eligible rules; zero means the file was not written.
func (f *File) SetOutbound(tag string) (int, error) {
	document, err := Load(f.Path)
	if err != nil {
		return 0, err
	}

	count := document.SetOutbound(f.Domain, tag)
	if count == 0 {
		return 0, nil
	}

	data, err := document.Marshal()
	if err != nil {
		return 0, err
	}
	if err := WriteFileAtomic(f.Path, data); err != nil {
		return 0, err
	}
	return count, nil
}

// WriteFileAtomic replaces path with data by renaming a synced temporary
// file from the same directory over it. The existing file's permission
// bits are kept; a new file gets 0644.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	temporaryPath := temporary.Name()
	cleanup := func() {
		temporary.Close()
		os.Remove(temporaryPath)
	}

	if _, err := temporary.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Chmod(mode); err != nil {
		cleanup()
		return fmt.Errorf("setting mode on %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
