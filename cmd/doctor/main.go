package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/3-lines-studio/easygen/internal/adapters/cli"
	"github.com/3-lines-studio/easygen/internal/config"
	"github.com/3-lines-studio/easygen/internal/initcmd"
)

func main() {
	settingsPath := flag.String("config", config.GetConfigPath(config.DefaultConfigPath), "settings file")
	profile := flag.String("profile", config.DefaultProfile, "profile to check")
	skipStorage := flag.Bool("skip-storage", false, "do not construct the storage backend")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cli.NewOutput()
	if err := initcmd.CheckSettings(ctx, out, *settingsPath, *profile, *skipStorage); err != nil {
		out.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}
