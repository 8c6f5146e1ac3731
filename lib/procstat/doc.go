// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package procstat locates the managed service's process and takes a
// one-shot resource snapshot of it.
//
// Lookup is best effort: [Inspector.Inspect] walks the process table in
// enumeration order and takes the first process whose name contains the
// match substring. There is no tie-break when several processes match.
//
// CPU utilisation is measured by reading the process's cumulative CPU
// time, waiting out a fixed window on the injected clock, and reading it
// again, so a snapshot blocks for the window (one second by default).
// A process that disappears at any point during the snapshot yields
// [ErrNotFound], never a partial snapshot.
//
// [System] reads the live process table through gopsutil; tests supply
// their own [Source].
package procstat
