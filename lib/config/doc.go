// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the xray-bot YAML configuration.
//
// The file is located by the --config flag (via [LoadFile]) or the
// XRAY_BOT_CONFIG environment variable (via [Load]). There is no
// discovery and no per-field environment override: the file is the
// single source of truth, layered over [Default], which carries the
// values the bot has always shipped with (unit "xray", the Xray config
// at /etc/xray/config.json, the seven outbound tags).
//
// ${VAR} and ${VAR:-default} are expanded in path fields after loading.
// [Config.Validate] reports every problem at once.
//
// The bot token itself is never stored in the file; Telegram.TokenFile
// points at it and lib/secret reads it.
package config
