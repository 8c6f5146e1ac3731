// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chatops

import (
	"fmt"
	"strings"
	"time"

	"github.com/ticn/linux/lib/procstat"
)

const (
	replyUnauthorized   = "❌ Unauthorized"
	replyUnknownCommand = "❓ Unknown command, send /help"
	replyIdleText       = "ℹ️ Send /tag to switch the Netflix outbound, or /help"
	replyInvalidTag     = "❌ Invalid tag, send /tag to try again"
	replyInternalError  = "❌ Internal error"
	replyManualLaunched = "⚙️ Manual limit script started"
	replyAutoLaunched   = "📦 Automatic limit script started"
)

func tagMenuText(domain string) string {
	return fmt.Sprintf("Select the outbound tag for %s:", domain)
}

func tagSwitchedText(tag, unit string) string {
	return fmt.Sprintf("✅ Netflix outbound switched to `%s` and %s restarted", tag, unit)
}

func tagNoMatchText(domain string) string {
	return fmt.Sprintf("⚠️ No %s rule found, configuration unchanged", domain)
}

func tagFailedText(err error) string {
	return fmt.Sprintf("❌ Failed to update configuration: %v", err)
}

func statusText(unit, state string, snapshot procstat.Snapshot, now time.Time) string {
	return fmt.Sprintf("📊 %s status: %s\n🆔 PID: %d\n⏱️ Uptime: %d s\n🧠 RAM: %.2f MB\n⚙️ CPU: %.2f%%",
		unit, state, snapshot.PID,
		int64(snapshot.Uptime(now)/time.Second),
		snapshot.RSSMiB(), snapshot.CPUPercent)
}

func statusNotFoundText(unit, state string) string {
	return fmt.Sprintf("📊 %s status: %s (process not found)", unit, state)
}

func helpText(commands []command) string {
	var builder strings.Builder
	builder.WriteString("📖 Available commands:")
	for _, cmd := range commands {
		fmt.Fprintf(&builder, "\n/%s - %s", cmd.name, cmd.summary)
	}
	return builder.String()
}
