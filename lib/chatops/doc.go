// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatops turns operator chat messages into actions on the
// managed Xray service.
//
// [Router.Handle] is the single entry point. Every request passes the
// [Guard] first; a request from any chat other than the authorized one
// gets the rejection reply and nothing else happens. Authorized
// requests are dispatched by command name:
//
//	/start /stop /restart   service lifecycle through systemctl
//	/status                 is-active state plus a process snapshot
//	/manual /limit          detached traffic-limit script launch
//	/tag                    outbound tag menu for the Netflix rule
//	/help                   command list
//
// Tag selection is an explicit two-state session per chat. /tag moves
// the chat to awaiting-selection and shows the catalog; the next plain
// text message is taken as the selection and returns the chat to idle
// whether or not it was valid. Plain text in the idle state is answered
// with a hint and never touches the routing file. Any command cancels a
// pending selection.
//
// Handle holds a mutex for the whole request, so requests are processed
// one at a time even if the transport delivers them concurrently. That
// includes the status command's one-second CPU sampling window.
//
// Collaborators are interfaces ([ServiceManager], [ProcessInspector],
// [ScriptLauncher], [RoutingEditor]) implemented by lib/systemd,
// lib/procstat, lib/limitscript, and lib/routing.
package chatops
