// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package limitscript

import (
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
)

// Mode selects how the script enforces the traffic limit.
type Mode int

const (
	// Automatic runs the script without arguments.
	Automatic Mode = iota
	// Manual passes the "manual" argument.
	Manual
)

func (m Mode) String() string {
	if m == Manual {
		return "manual"
	}
	return "automatic"
}

// Launcher starts the script through an interpreter.
type Launcher struct {
	interpreter string
	path        string
	logger      *slog.Logger
}

// NewLauncher returns a Launcher running "interpreter path [manual]".
func NewLauncher(interpreter, path string, logger *slog.Logger) *Launcher {
	return &Launcher{interpreter: interpreter, path: path, logger: logger}
}

// Args returns the argv for mode, interpreter first.
func (l *Launcher) Args(mode Mode) []string {
	args := []string{l.interpreter, l.path}
	if mode == Manual {
		args = append(args, "manual")
	}
	return args
}

// Launch starts the script detached and returns its pid without
// waiting for it. An error means the process could not be started at
// all; the script's own outcome is never observed by the caller.
func (l *Launcher) Launch(mode Mode) (int, error) {
	args := l.Args(mode)
	command := exec.Command(args[0], args[1:]...)
	command.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := command.Start(); err != nil {
		return 0, fmt.Errorf("starting %s limit script %s: %w", mode, l.path, err)
	}
	pid := command.Process.Pid
	l.logger.Info("limit script launched", "mode", mode.String(), "pid", pid, "path", l.path)

	go func() {
		err := command.Wait()
		l.logger.Debug("limit script exited", "mode", mode.String(), "pid", pid, "error", err)
	}()
	return pid, nil
}
