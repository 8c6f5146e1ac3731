// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// xray-bot lets one Telegram chat operate an Xray proxy host: start,
// stop, and restart the systemd unit, report process status, launch the
// traffic-limit script, and retarget the geosite:netflix routing rule at
// a different outbound.
//
// Configuration is a YAML file named by --config or the XRAY_BOT_CONFIG
// environment variable. The bot token is read from the file named by
// telegram.token_file into locked memory. Logs are JSON on stderr.
//
// The process exits cleanly on SIGINT or SIGTERM.
package main
