// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "XRAY_BOT_CONFIG"

// Config is the complete bot configuration. It is built once at startup
// and passed to every component constructor.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Service     ServiceConfig     `yaml:"service"`
	Routing     RoutingConfig     `yaml:"routing"`
	LimitScript LimitScriptConfig `yaml:"limit_script"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// TelegramConfig configures the chat transport and the one chat that
// may control the bot.
type TelegramConfig struct {
	// TokenFile holds the bot token, or "-" for stdin.
	TokenFile string `yaml:"token_file"`

	// AuthorizedChatID is the only chat whose messages are acted on.
	AuthorizedChatID int64 `yaml:"authorized_chat_id"`

	// PollTimeout is the long-polling timeout for getUpdates.
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

// ServiceConfig identifies the managed systemd unit and its process.
type ServiceConfig struct {
	// Unit is the systemd unit name passed to systemctl.
	Unit string `yaml:"unit"`

	// ProcessMatch is the substring searched for in process names by
	// the status command. Defaults to Unit.
	ProcessMatch string `yaml:"process_match"`

	// ReportErrors makes lifecycle commands reply with the systemctl
	// failure instead of acknowledging unconditionally.
	ReportErrors bool `yaml:"report_errors"`
}

// RoutingConfig locates the Xray configuration and lists the outbound
// tags the operator may select.
type RoutingConfig struct {
	ConfigPath string `yaml:"config_path"`

	// Domain is the single domain-list entry that marks a rule as
	// switchable.
	Domain string `yaml:"domain"`

	// Tags is the ordered outbound tag catalog shown by /tag.
	Tags []string `yaml:"tags"`
}

// LimitScriptConfig locates the traffic-limit script.
type LimitScriptConfig struct {
	Interpreter string `yaml:"interpreter"`
	Path        string `yaml:"path"`
}

// Default returns the configuration the bot runs with when the file
// leaves a field unset.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Telegram: TelegramConfig{
			TokenFile:   "/etc/xray-bot/token",
			PollTimeout: 30 * time.Second,
		},
		Service: ServiceConfig{
			Unit: "xray",
		},
		Routing: RoutingConfig{
			ConfigPath: "/etc/xray/config.json",
			Domain:     "geosite:netflix",
			Tags:       []string{"alice", "AMD", "rs", "NiiHost", "local", "NG", "ARM"},
		},
		LimitScript: LimitScriptConfig{
			Interpreter: "bash",
			Path:        "/usr/local/bin/xray-traffic-limit.sh",
		},
	}
}

// Load loads the file named by XRAY_BOT_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your xray-bot.yaml or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads path over [Default], expands variables, and fills
// derived defaults. It does not validate; call [Config.Validate].
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over [Default]. Unknown keys are rejected so
// that a misspelled field does not silently fall back to a default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.expandVariables()
	if cfg.Service.ProcessMatch == "" {
		cfg.Service.ProcessMatch = cfg.Service.Unit
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.Telegram.TokenFile = expandVars(c.Telegram.TokenFile)
	c.Routing.ConfigPath = expandVars(c.Routing.ConfigPath)
	c.LimitScript.Path = expandVars(c.LimitScript.Path)
	c.LimitScript.Interpreter = expandVars(c.LimitScript.Interpreter)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. Unset variables
// without a default expand to the empty string.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate reports every configuration problem joined into one error.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn, or error", c.Log.Level))
	}

	if c.Telegram.TokenFile == "" {
		errs = append(errs, errors.New("telegram.token_file is required"))
	}
	if c.Telegram.AuthorizedChatID == 0 {
		errs = append(errs, errors.New("telegram.authorized_chat_id is required"))
	}
	if c.Telegram.PollTimeout < 0 {
		errs = append(errs, errors.New("telegram.poll_timeout must not be negative"))
	}

	if c.Service.Unit == "" {
		errs = append(errs, errors.New("service.unit is required"))
	}

	if c.Routing.ConfigPath == "" {
		errs = append(errs, errors.New("routing.config_path is required"))
	}
	if c.Routing.Domain == "" {
		errs = append(errs, errors.New("routing.domain is required"))
	}
	if len(c.Routing.Tags) == 0 {
		errs = append(errs, errors.New("routing.tags must list at least one outbound tag"))
	}
	seen := make(map[string]bool, len(c.Routing.Tags))
	for _, tag := range c.Routing.Tags {
		if strings.TrimSpace(tag) != tag || tag == "" {
			errs = append(errs, fmt.Errorf("routing.tags entry %q must be non-empty without surrounding whitespace", tag))
			continue
		}
		if strings.HasPrefix(tag, "/") {
			errs = append(errs, fmt.Errorf("routing.tags entry %q must not start with /", tag))
		}
		if seen[tag] {
			errs = append(errs, fmt.Errorf("routing.tags lists %q more than once", tag))
		}
		seen[tag] = true
	}

	if c.LimitScript.Interpreter == "" {
		errs = append(errs, errors.New("limit_script.interpreter is required"))
	}
	if c.LimitScript.Path == "" {
		errs = append(errs, errors.New("limit_script.path is required"))
	}

	return errors.Join(errs...)
}
