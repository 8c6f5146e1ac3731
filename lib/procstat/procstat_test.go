// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package procstat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/ticn/linux/lib/clock"
)

var epoch = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// fakeSource serves a fixed table. cpuTimes is consumed one reading per
// CPUTime call; exitAfter makes the process vanish after that many
// successful per-PID calls.
type fakeSource struct {
	entries   []Entry
	created   map[int32]time.Time
	cpuTimes  []time.Duration
	rss       map[int32]uint64
	listErr   error
	exitAfter int
	calls     int
}

func (f *fakeSource) List(context.Context) ([]Entry, error) {
	return f.entries, f.listErr
}

func (f *fakeSource) alive(pid int32) error {
	f.calls++
	if f.exitAfter > 0 && f.calls > f.exitAfter {
		return fmt.Errorf("pid %d: %w", pid, ErrNotFound)
	}
	return nil
}

func (f *fakeSource) CreateTime(_ context.Context, pid int32) (time.Time, error) {
	if err := f.alive(pid); err != nil {
		return time.Time{}, err
	}
	return f.created[pid], nil
}

func (f *fakeSource) CPUTime(_ context.Context, pid int32) (time.Duration, error) {
	if err := f.alive(pid); err != nil {
		return 0, err
	}
	reading := f.cpuTimes[0]
	f.cpuTimes = f.cpuTimes[1:]
	return reading, nil
}

func (f *fakeSource) RSS(_ context.Context, pid int32) (uint64, error) {
	if err := f.alive(pid); err != nil {
		return 0, err
	}
	return f.rss[pid], nil
}

func TestInspectFirstMatchWins(t *testing.T) {
	source := &fakeSource{
		entries: []Entry{
			{PID: 1, Name: "systemd"},
			{PID: 200, Name: "xray"},
			{PID: 300, Name: "xray-helper"},
		},
		created:  map[int32]time.Time{200: epoch.Add(-time.Hour)},
		cpuTimes: []time.Duration{2 * time.Second, 2*time.Second + 250*time.Millisecond},
		rss:      map[int32]uint64{200: 12 * 1024 * 1024},
	}
	fake := clock.Fake(epoch)
	inspector := NewInspector(source, fake, time.Second)

	snapshot, err := inspector.Inspect(context.Background(), "xray")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if snapshot.PID != 200 {
		t.Errorf("PID = %d, want 200 (first match)", snapshot.PID)
	}
	if math.Abs(snapshot.CPUPercent-25) > 1e-9 {
		t.Errorf("CPUPercent = %v, want 25", snapshot.CPUPercent)
	}
	if snapshot.RSSMiB() != 12 {
		t.Errorf("RSSMiB = %v, want 12", snapshot.RSSMiB())
	}
	if fake.Slept() != time.Second {
		t.Errorf("slept %v, want the 1s sampling window", fake.Slept())
	}
	// The sampling window elapsed on top of the hour of prior uptime.
	if got := snapshot.Uptime(fake.Now()); got != time.Hour+time.Second {
		t.Errorf("Uptime = %v, want 1h0m1s", got)
	}
}

func TestInspectNoMatch(t *testing.T) {
	source := &fakeSource{entries: []Entry{{PID: 1, Name: "systemd"}}}
	inspector := NewInspector(source, clock.Fake(epoch), 0)

	_, err := inspector.Inspect(context.Background(), "xray")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if source.calls != 0 {
		t.Errorf("made %d per-pid calls without a match", source.calls)
	}
}

func TestInspectProcessExitsMidSnapshot(t *testing.T) {
	for exitAfter := 1; exitAfter <= 3; exitAfter++ {
		t.Run(fmt.Sprintf("after %d calls", exitAfter), func(t *testing.T) {
			source := &fakeSource{
				entries:   []Entry{{PID: 7, Name: "xray"}},
				created:   map[int32]time.Time{7: epoch},
				cpuTimes:  []time.Duration{0, 0},
				rss:       map[int32]uint64{7: 1},
				exitAfter: exitAfter,
			}
			_, err := NewInspector(source, clock.Fake(epoch), time.Second).Inspect(context.Background(), "xray")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestInspectListFailure(t *testing.T) {
	source := &fakeSource{listErr: errors.New("permission denied")}
	_, err := NewInspector(source, clock.Fake(epoch), 0).Inspect(context.Background(), "xray")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want a listing error distinct from ErrNotFound", err)
	}
}

func TestUptimeClampsAtZero(t *testing.T) {
	snapshot := Snapshot{CreateTime: epoch.Add(time.Minute)}
	if got := snapshot.Uptime(epoch); got != 0 {
		t.Errorf("Uptime = %v, want 0 for a creation time in the future", got)
	}
}

func TestCPUPercentFallsBackToWindow(t *testing.T) {
	if got := cpuPercent(500*time.Millisecond, 0, time.Second); got != 50 {
		t.Errorf("cpuPercent = %v, want 50", got)
	}
	if got := cpuPercent(-time.Second, time.Second, time.Second); got != 0 {
		t.Errorf("cpuPercent = %v, want 0 for a negative delta", got)
	}
}

func TestSystemSeesOwnProcess(t *testing.T) {
	ctx := context.Background()
	pid := int32(os.Getpid())

	entries, err := System{}.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, entry := range entries {
		if entry.PID == pid {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("own pid %d missing from process table", pid)
	}

	created, err := System{}.CreateTime(ctx, pid)
	if err != nil {
		t.Fatalf("CreateTime: %v", err)
	}
	if created.IsZero() || created.After(time.Now()) {
		t.Errorf("CreateTime = %v, want a past time", created)
	}
	rss, err := System{}.RSS(ctx, pid)
	if err != nil {
		t.Fatalf("RSS: %v", err)
	}
	if rss == 0 {
		t.Error("RSS = 0 for a running test binary")
	}
	if _, err := (System{}).CPUTime(ctx, pid); err != nil {
		t.Fatalf("CPUTime: %v", err)
	}
}

func TestSystemMissingPID(t *testing.T) {
	_, err := System{}.RSS(context.Background(), math.MaxInt32-1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
