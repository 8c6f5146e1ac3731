// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the bot.
//
// The status report computes process uptime from Now and measures the
// CPU sampling window with Sleep. Production code injects [Real]; tests
// inject [Fake], whose Sleep advances the fake time instantly so that a
// one-second sampling window costs nothing and its arithmetic is exact.
//
// This package has no dependencies outside the standard library.
package clock
