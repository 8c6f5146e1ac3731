// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package telegram connects a chatops.Router to the Telegram Bot API.
//
// The transport long-polls for updates, turns each text message into a
// chatops.Request, and sends the Reply back to the originating chat. A
// Reply carrying Options is rendered as a one-time reply keyboard; any
// other reply removes a keyboard left over from an earlier menu.
// Updates that are not text messages are ignored.
package telegram
