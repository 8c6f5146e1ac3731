// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps the Telegram bot token out of swappable,
// dumpable heap memory.
//
// [Buffer] lives in an anonymous mmap region that is mlocked and marked
// MADV_DONTDUMP. [ReadFromPath] loads a token file (or stdin for "-")
// straight into a Buffer and zeroes the intermediate read buffer. The
// token only leaves protected memory through [Buffer.String], at the
// boundary where the Telegram client needs it.
//
// Depends on golang.org/x/sys/unix.
package secret
