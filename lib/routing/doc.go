// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package routing edits the routing section of an Xray configuration.
//
// The only edit supported is retargeting: every rule in routing.rules
// whose type is "field" and whose domain list is exactly one entry equal
// to the configured sentinel (geosite:netflix by default) gets its
// outboundTag replaced. Everything else in the document is carried
// through untouched: unknown keys survive, and numbers are kept as
// [json.Number] so their textual form does not change. Key order and
// comments are not preserved; comments are accepted on read because
// Xray itself accepts them.
//
// [File.SetOutbound] is the read-modify-write entry point. It writes
// only when at least one rule matched, and writes atomically: a
// temporary file in the same directory is renamed over the original,
// keeping the original permission bits.
package routing
