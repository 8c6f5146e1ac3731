// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chatops

import (
	"context"

	"github.com/ticn/linux/lib/limitscript"
	"github.com/ticn/linux/lib/procstat"
)

// Request is one inbound chat message.
type Request struct {
	// ID correlates log lines for this request. Generated when empty.
	ID     string
	ChatID int64
	Text   string
}

// Reply is the bot's answer to a Request.
type Reply struct {
	Text string

	// Options, when set, are offered as a one-time selection menu.
	Options []string
}

// ServiceManager controls the managed systemd unit.
type ServiceManager interface {
	Unit() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	State(ctx context.Context) (string, error)
}

// ProcessInspector snapshots the first process whose name contains
// match, returning an error wrapping procstat.ErrNotFound when there is
// none.
type ProcessInspector interface {
	Inspect(ctx context.Context, match string) (procstat.Snapshot, error)
}

// ScriptLauncher starts the traffic-limit script without waiting for it.
type ScriptLauncher interface {
	Launch(mode limitscript.Mode) (int, error)
}

// RoutingEditor points the switchable routing rules at tag and returns
// how many rules it changed. Zero means the configuration was left
// untouched.
type RoutingEditor interface {
	SetOutbound(tag string) (int, error)
}

// Guard admits a single chat.
type Guard struct {
	authorized int64
}

// NewGuard returns a Guard admitting only chatID.
func NewGuard(chatID int64) Guard {
	return Guard{authorized: chatID}
}

// Allow reports whether chatID is the authorized chat.
func (g Guard) Allow(chatID int64) bool {
	return chatID == g.authorized
}
