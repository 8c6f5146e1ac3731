// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	TempDir() string
	Fatalf(format string, args ...any)
}

// WriteFile writes content to name inside a fresh temporary directory
// with the given permissions and returns the full path.
//
//	path := testutil.WriteFile(t, "config.json", `{"routing": {}}`, 0644)
func WriteFile(t T, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	// WriteFile honours the umask; force the requested bits.
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %s: %v", name, err)
	}
	return path
}

// WaitForFile polls until path exists and ends in a newline, then
// returns its content. Writers should create the file under a temporary
// name and rename it so a partial line is never observed.
func WaitForFile(t T, path string, timeout time.Duration) string {
	t.Helper()
	deadline := time.Now().Add(timeout) //nolint:realclock test hang prevention
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && strings.HasSuffix(string(data), "\n") {
			return string(data)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out after %v waiting for %s", timeout, path)
	return ""
}
