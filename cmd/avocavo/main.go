package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avocavo/nutrition-go/internal/cli"
	"github.com/avocavo/nutrition-go/internal/logging"
)

func main() {
	ctx := context.Background()

	logger := logging.NewText(os.Stderr, slog.LevelWarn)
	prefs := cli.LoadPrefs(cli.DefaultPrefsPath())

	app, err := cli.NewApp(prefs, os.Stdin, os.Stdout, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "avocavo: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "avocavo: %v\n", err)
		os.Exit(1)
	}
}
