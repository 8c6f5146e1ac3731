// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package procstat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ticn/linux/lib/clock"
)

// ErrNotFound reports that no matching process exists, or that the
// matched process exited before the snapshot completed.
var ErrNotFound = errors.New("process not found")

// DefaultWindow is the CPU sampling window.
const DefaultWindow = time.Second

// Entry is one row of the process table.
type Entry struct {
	PID  int32
	Name string
}

// Source is the process-table collaborator. Per-PID methods return an
// error wrapping [ErrNotFound] when the process no longer exists.
type Source interface {
	// List returns the process table in enumeration order.
	List(ctx context.Context) ([]Entry, error)
	CreateTime(ctx context.Context, pid int32) (time.Time, error)
	// CPUTime returns cumulative user plus system CPU time.
	CPUTime(ctx context.Context, pid int32) (time.Duration, error)
	// RSS returns resident memory in bytes.
	RSS(ctx context.Context, pid int32) (uint64, error)
}

// Snapshot is a point-in-time view of one process. It is never cached.
type Snapshot struct {
	PID        int32
	Name       string
	CreateTime time.Time
	CPUPercent float64
	RSSBytes   uint64
}

// Uptime returns now minus the creation time, clamped at zero.
func (s Snapshot) Uptime(now time.Time) time.Duration {
	uptime := now.Sub(s.CreateTime)
	if uptime < 0 {
		return 0
	}
	return uptime
}

// RSSMiB returns resident memory in mebibytes.
func (s Snapshot) RSSMiB() float64 {
	return float64(s.RSSBytes) / 1024 / 1024
}

// Inspector takes snapshots from a Source.
type Inspector struct {
	source Source
	clock  clock.Clock
	window time.Duration
}

// NewInspector returns an Inspector sampling CPU over window. A
// non-positive window uses [DefaultWindow].
func NewInspector(source Source, clk clock.Clock, window time.Duration) *Inspector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Inspector{source: source, clock: clk, window: window}
}

// Find returns the first table entry whose name contains match.
func (i *Inspector) Find(ctx context.Context, match string) (Entry, error) {
	entries, err := i.source.List(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("listing processes: %w", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name, match) {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Inspect finds the first process matching match and snapshots it.
// Blocks for the sampling window.
func (i *Inspector) Inspect(ctx context.Context, match string) (Snapshot, error) {
	entry, err := i.Find(ctx, match)
	if err != nil {
		return Snapshot{}, err
	}

	created, err := i.source.CreateTime(ctx, entry.PID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pid %d creation time: %w", entry.PID, err)
	}

	before, err := i.source.CPUTime(ctx, entry.PID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pid %d cpu time: %w", entry.PID, err)
	}
	started := i.clock.Now()
	i.clock.Sleep(i.window)
	elapsed := i.clock.Now().Sub(started)
	after, err := i.source.CPUTime(ctx, entry.PID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pid %d cpu time: %w", entry.PID, err)
	}

	rss, err := i.source.RSS(ctx, entry.PID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pid %d memory: %w", entry.PID, err)
	}

	return Snapshot{
		PID:        entry.PID,
		Name:       entry.Name,
		CreateTime: created,
		CPUPercent: cpuPercent(after-before, elapsed, i.window),
		RSSBytes:   rss,
	}, nil
}

// cpuPercent divides CPU time consumed by wall time elapsed. Falls back
// to the nominal window when the clock did not move.
func cpuPercent(used, elapsed, window time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = window
	}
	if used < 0 {
		used = 0
	}
	return used.Seconds() / elapsed.Seconds() * 100
}
