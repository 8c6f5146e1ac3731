// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the xray-bot binary.
//
// [Version], [GitCommit], and [BuildTime] are injected with -ldflags -X
// at build time and keep their development defaults otherwise. [Info]
// formats them for --version output and for the startup log line.
package version
