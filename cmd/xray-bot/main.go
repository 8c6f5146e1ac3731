// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ticn/linux/lib/chatops"
	"github.com/ticn/linux/lib/clock"
	"github.com/ticn/linux/lib/config"
	"github.com/ticn/linux/lib/limitscript"
	"github.com/ticn/linux/lib/procstat"
	"github.com/ticn/linux/lib/routing"
	"github.com/ticn/linux/lib/secret"
	"github.com/ticn/linux/lib/systemd"
	"github.com/ticn/linux/lib/telegram"
	"github.com/ticn/linux/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("xray-bot", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the YAML config (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug|info|warn|error)")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.showVersion {
		fmt.Printf("xray-bot %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	token, err := secret.ReadFromPath(cfg.Telegram.TokenFile)
	if err != nil {
		return fmt.Errorf("reading bot token: %w", err)
	}
	defer token.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := chatops.NewRouter(chatops.Config{
		AuthorizedChatID: cfg.Telegram.AuthorizedChatID,
		ProcessMatch:     cfg.Service.ProcessMatch,
		Domain:           cfg.Routing.Domain,
		Tags:             cfg.Routing.Tags,
		ReportErrors:     cfg.Service.ReportErrors,
		Service:          systemd.NewController(cfg.Service.Unit, nil),
		Processes:        procstat.NewInspector(procstat.System{}, clock.Real(), procstat.DefaultWindow),
		Scripts:          limitscript.NewLauncher(cfg.LimitScript.Interpreter, cfg.LimitScript.Path, logger),
		Routing:          routing.NewFile(cfg.Routing.ConfigPath, cfg.Routing.Domain),
		Clock:            clock.Real(),
		Logger:           logger,
	})

	transport, err := telegram.New(telegram.Options{
		Token:       token.String(),
		PollTimeout: cfg.Telegram.PollTimeout,
		Handler:     router,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("xray-bot running",
		"version", version.Info(),
		"unit", cfg.Service.Unit,
		"routing_config", cfg.Routing.ConfigPath,
		"authorized_chat_id", cfg.Telegram.AuthorizedChatID,
		"tags", len(cfg.Routing.Tags),
	)
	return transport.Run(ctx)
}
