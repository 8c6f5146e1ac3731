// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package systemd drives one systemd unit through systemctl.
//
// [Controller] issues start, stop, restart, and is-active for a fixed
// unit name. Commands run synchronously through a [Runner] so tests can
// substitute a recorder for the real systemctl binary.
package systemd
