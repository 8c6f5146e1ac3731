// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package systemd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its standard output. A non-nil
// error may accompany valid output: systemctl is-active exits non-zero
// for inactive units but still prints the state.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts name with args and waits for it. Stderr is folded into the
// returned error so that systemctl's explanation reaches the log.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, name, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		if message := strings.TrimSpace(stderr.String()); message != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, message)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

// StateUnknown is reported when is-active produces no output at all.
const StateUnknown = "unknown"

// Controller manages a single unit.
type Controller struct {
	unit   string
	runner Runner
}

// NewController returns a Controller for unit. A nil runner uses
// [ExecRunner].
func NewController(unit string, runner Runner) *Controller {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Controller{unit: unit, runner: runner}
}

// Unit returns the managed unit name.
func (c *Controller) Unit() string { return c.unit }

func (c *Controller) Start(ctx context.Context) error   { return c.lifecycle(ctx, "start") }
func (c *Controller) Stop(ctx context.Context) error    { return c.lifecycle(ctx, "stop") }
func (c *Controller) Restart(ctx context.Context) error { return c.lifecycle(ctx, "restart") }

func (c *Controller) lifecycle(ctx context.Context, verb string) error {
	if _, err := c.runner.Run(ctx, "systemctl", verb, c.unit); err != nil {
		return fmt.Errorf("systemctl %s %s: %w", verb, c.unit, err)
	}
	return nil
}

// State returns the is-active state string ("active", "inactive",
// "failed", ...). The exit status is ignored whenever systemctl printed
// a state; only a silent failure is returned as an error, together with
// [StateUnknown].
func (c *Controller) State(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "systemctl", "is-active", c.unit)
	state := strings.TrimSpace(string(output))
	if state != "" {
		return state, nil
	}
	if err != nil {
		return StateUnknown, fmt.Errorf("systemctl is-active %s: %w", c.unit, err)
	}
	return StateUnknown, nil
}
