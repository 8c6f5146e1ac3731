// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chatops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ticn/linux/lib/clock"
	"github.com/ticn/linux/lib/limitscript"
	"github.com/ticn/linux/lib/procstat"
)

// Config wires a Router. All collaborator fields are required.
type Config struct {
	AuthorizedChatID int64

	// ProcessMatch is the process-name substring for /status.
	ProcessMatch string

	// Domain is the routing sentinel, shown in the /tag menu.
	Domain string

	// Tags is the outbound tag catalog in menu order.
	Tags []string

	// ReportErrors replaces unconditional acknowledgements with the
	// underlying failure when systemctl or a script launch fails.
	ReportErrors bool

	Service   ServiceManager
	Processes ProcessInspector
	Scripts   ScriptLauncher
	Routing   RoutingEditor
	Clock     clock.Clock
	Logger    *slog.Logger
}

// sessionState is the tag selection state of one chat.
type sessionState int

const (
	idle sessionState = iota
	awaitingTag
)

type command struct {
	name    string
	summary string
	run     func(r *Router, ctx context.Context, chatID int64, logger *slog.Logger) Reply
}

// newCommandTable lists commands in /help order.
func newCommandTable() []command {
	return []command{
		{"start", "Start the service", (*Router).startService},
		{"stop", "Stop the service", (*Router).stopService},
		{"restart", "Restart the service", (*Router).restartService},
		{"status", "Show service status", (*Router).status},
		{"manual", "Run the manual traffic limit script", (*Router).manualLimit},
		{"limit", "Run the automatic traffic limit script", (*Router).automaticLimit},
		{"tag", "Switch the Netflix outbound", (*Router).tagMenu},
		{"help", "Show this help", (*Router).help},
	}
}

// Router dispatches requests to handlers. It is safe for concurrent use
// but processes one request at a time.
type Router struct {
	config   Config
	guard    Guard
	logger   *slog.Logger
	commands []command

	mu       sync.Mutex
	sessions map[int64]sessionState
}

// NewRouter returns a Router for config.
func NewRouter(config Config) *Router {
	return &Router{
		config:   config,
		guard:    NewGuard(config.AuthorizedChatID),
		logger:   config.Logger,
		commands: newCommandTable(),
		sessions: make(map[int64]sessionState),
	}
}

// Handle processes one request and returns the reply to send back. It
// never panics: a failing handler is logged and answered with a
// generic error.
func (r *Router) Handle(ctx context.Context, request Request) (reply Reply) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	logger := r.logger.With("request_id", request.ID, "chat_id", request.ChatID)

	if !r.guard.Allow(request.ChatID) {
		logger.Warn("rejected message from unauthorized chat")
		return Reply{Text: replyUnauthorized}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("handler panicked", "panic", fmt.Sprint(recovered))
			reply = Reply{Text: replyInternalError}
		}
	}()

	name, isCommand := parseCommand(request.Text)
	if !isCommand {
		return r.handleText(ctx, request.ChatID, request.Text, logger)
	}

	// A command always abandons a pending tag selection.
	delete(r.sessions, request.ChatID)

	index := slices.IndexFunc(r.commands, func(c command) bool { return c.name == name })
	if index < 0 {
		logger.Info("unknown command", "command", name)
		return Reply{Text: replyUnknownCommand}
	}
	logger.Info("handling command", "command", name)
	return r.commands[index].run(r, ctx, request.ChatID, logger)
}

// parseCommand extracts the lowercased command name from text such as
// "/status" or "/Status@xray_bot extra". The second result is false for
// plain text.
func parseCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), true
}

func (r *Router) handleText(ctx context.Context, chatID int64, text string, logger *slog.Logger) Reply {
	if r.sessions[chatID] != awaitingTag {
		logger.Debug("plain text outside tag selection")
		return Reply{Text: replyIdleText}
	}
	delete(r.sessions, chatID)
	return r.selectTag(ctx, strings.TrimSpace(text), logger)
}

func (r *Router) help(_ context.Context, _ int64, _ *slog.Logger) Reply {
	return Reply{Text: helpText(r.commands)}
}

func (r *Router) startService(ctx context.Context, _ int64, logger *slog.Logger) Reply {
	return r.lifecycle(logger, r.config.Service.Start(ctx), "✅ %s started", "start")
}

func (r *Router) stopService(ctx context.Context, _ int64, logger *slog.Logger) Reply {
	return r.lifecycle(logger, r.config.Service.Stop(ctx), "🛑 %s stopped", "stop")
}

func (r *Router) restartService(ctx context.Context, _ int64, logger *slog.Logger) Reply {
	return r.lifecycle(logger, r.config.Service.Restart(ctx), "🔄 %s restarted", "restart")
}

// lifecycle acknowledges a systemctl call. Failures are always logged
// but only replace the acknowledgement when ReportErrors is set.
func (r *Router) lifecycle(logger *slog.Logger, err error, format, verb string) Reply {
	unit := r.config.Service.Unit()
	if err != nil {
		logger.Error("service command failed", "verb", verb, "unit", unit, "error", err)
		if r.config.ReportErrors {
			return Reply{Text: fmt.Sprintf("❌ Failed to %s %s: %v", verb, unit, err)}
		}
	}
	return Reply{Text: fmt.Sprintf(format, unit)}
}

func (r *Router) status(ctx context.Context, _ int64, logger *slog.Logger) Reply {
	unit := r.config.Service.Unit()
	state, err := r.config.Service.State(ctx)
	if err != nil {
		logger.Warn("reading service state", "unit", unit, "error", err)
	}

	snapshot, err := r.config.Processes.Inspect(ctx, r.config.ProcessMatch)
	if err != nil {
		if !errors.Is(err, procstat.ErrNotFound) {
			logger.Warn("inspecting process", "match", r.config.ProcessMatch, "error", err)
		}
		return Reply{Text: statusNotFoundText(unit, state)}
	}
	return Reply{Text: statusText(unit, state, snapshot, r.config.Clock.Now())}
}

func (r *Router) manualLimit(_ context.Context, _ int64, logger *slog.Logger) Reply {
	return r.launch(logger, limitscript.Manual, replyManualLaunched)
}

func (r *Router) automaticLimit(_ context.Context, _ int64, logger *slog.Logger) Reply {
	return r.launch(logger, limitscript.Automatic, replyAutoLaunched)
}

func (r *Router) launch(logger *slog.Logger, mode limitscript.Mode, acknowledgement string) Reply {
	if _, err := r.config.Scripts.Launch(mode); err != nil {
		logger.Error("launching limit script", "mode", mode.String(), "error", err)
		if r.config.ReportErrors {
			return Reply{Text: fmt.Sprintf("❌ %v", err)}
		}
	}
	return Reply{Text: acknowledgement}
}

func (r *Router) tagMenu(_ context.Context, chatID int64, _ *slog.Logger) Reply {
	r.sessions[chatID] = awaitingTag
	return Reply{
		Text:    tagMenuText(r.config.Domain),
		Options: slices.Clone(r.config.Tags),
	}
}

// selectTag applies a catalog selection: rewrite the routing rules,
// then restart the service if anything changed.
func (r *Router) selectTag(ctx context.Context, tag string, logger *slog.Logger) Reply {
	if !slices.Contains(r.config.Tags, tag) {
		logger.Info("rejected tag outside catalog", "tag", tag)
		return Reply{Text: replyInvalidTag}
	}

	changed, err := r.config.Routing.SetOutbound(tag)
	if err != nil {
		logger.Error("updating routing config", "tag", tag, "error", err)
		return Reply{Text: tagFailedText(err)}
	}
	if changed == 0 {
		logger.Info("no switchable routing rule", "domain", r.config.Domain)
		return Reply{Text: tagNoMatchText(r.config.Domain)}
	}
	logger.Info("routing rules retargeted", "tag", tag, "rules", changed)

	unit := r.config.Service.Unit()
	if err := r.config.Service.Restart(ctx); err != nil {
		logger.Error("restarting after tag switch", "unit", unit, "error", err)
		if r.config.ReportErrors {
			return Reply{Text: fmt.Sprintf("⚠️ Netflix outbound switched to `%s` but restarting %s failed: %v", tag, unit, err)}
		}
	}
	return Reply{Text: tagSwitchedText(tag, unit)}
}
