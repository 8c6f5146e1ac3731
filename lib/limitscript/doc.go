// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package limitscript launches the traffic-limit script as a detached
// background task.
//
// Launching is fire-and-forget by contract: [Launcher.Launch] returns as
// soon as the child has been started. The child runs in its own session
// with stdio on the null device, so it survives the bot being stopped
// and never blocks on a closed pipe. Its exit status is collected by a
// background goroutine only to reap it and log at debug level; nothing
// is reported back to the operator.
package limitscript
