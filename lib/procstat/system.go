// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package procstat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// System is the live process table, read through gopsutil.
type System struct{}

// List enumerates running processes. Processes that exit while their
// name is being read are skipped.
func (System) List(ctx context.Context) ([]Entry, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(processes))
	for _, proc := range processes {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{PID: proc.Pid, Name: name})
	}
	return entries, nil
}

func (System) CreateTime(ctx context.Context, pid int32) (time.Time, error) {
	proc, err := open(ctx, pid)
	if err != nil {
		return time.Time{}, err
	}
	millis, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, gone(ctx, pid, err)
	}
	return time.UnixMilli(millis), nil
}

func (System) CPUTime(ctx context.Context, pid int32) (time.Duration, error) {
	proc, err := open(ctx, pid)
	if err != nil {
		return 0, err
	}
	times, err := proc.TimesWithContext(ctx)
	if err != nil {
		return 0, gone(ctx, pid, err)
	}
	return time.Duration((times.User + times.System) * float64(time.Second)), nil
}

func (System) RSS(ctx context.Context, pid int32) (uint64, error) {
	proc, err := open(ctx, pid)
	if err != nil {
		return 0, err
	}
	memory, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, gone(ctx, pid, err)
	}
	return memory.RSS, nil
}

func open(ctx context.Context, pid int32) (*process.Process, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, gone(ctx, pid, err)
	}
	return proc, nil
}

// gone maps errors caused by the process exiting to ErrNotFound and
// passes anything else through.
func gone(ctx context.Context, pid int32, err error) error {
	if errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}
	if exists, existsErr := process.PidExistsWithContext(ctx, pid); existsErr == nil && !exists {
		return fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}
	return err
}
