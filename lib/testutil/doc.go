// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [WriteFile] creates a fixture file in a per-test temporary directory.
// [WaitForFile] polls for a file written by a detached child process;
// it is the only helper in the test suite that waits on wall-clock
// time.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
