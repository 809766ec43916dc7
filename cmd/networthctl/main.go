package main

import (
	"context"
	"log/slog"
	"os"

	"networth/internal/cli"
	"networth/internal/config"
	"networth/internal/log"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	// Command output owns stdout; logs go to stderr and stay quiet by default.
	lcfg := log.DefaultConfig()
	lcfg.Level = slog.LevelWarn
	if s := os.Getenv("NETWORTHCTL_LOG_LEVEL"); s != "" {
		if level, err := log.ParseLevel(s); err == nil {
			lcfg.Level = level
		}
	}
	lcfg.Format = cfg.LogFormat
	lcfg.Component = log.ComponentCLI
	lcfg.Writer = os.Stderr
	logger := log.New(lcfg)
	log.SetDefault(logger)

	cmd := cli.NewRootCommand(cli.BackendOpener(cfg, logger), cfg.SQLiteDBPath)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
