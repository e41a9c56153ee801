package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/devbydaniel/whisperclip/config"
	"github.com/devbydaniel/whisperclip/internal/app"
	"github.com/devbydaniel/whisperclip/internal/cli"
	"github.com/devbydaniel/whisperclip/internal/output"
)

func main() {
	if err := run(); err != nil {
		var reported *cli.Reported
		if !errors.As(err, &reported) {
			formatter := output.NewFormatter(os.Stderr)
			formatter.Error(err.Error())
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	application, err := app.New(cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer func() { _ = application.Logger.Sync() }()

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).Execute()
}
