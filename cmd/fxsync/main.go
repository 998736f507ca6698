package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fxsync/internal/app"
	"fxsync/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

// @title fxsync API
// @version 1.0
// @description Read-only access to exchange rates synced from Korea Eximbank.
// @BasePath /api/v1
func main() {
	atexit.Register(exitLog(time.Now()))

	if err := newCLI().RunContext(context.Background(), os.Args); err != nil {
		atexit.Fatalf("fxsync failed: %v", err)
	}
	atexit.Exit(0)
}

func newCLI() *cli.App {
	return &cli.App{
		Name:      "fxsync",
		Usage:     "sync Korea Eximbank exchange rates into a local database",
		ArgsUsage: "[current|historical]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to an optional yaml config file",
				EnvVars: []string{"FXSYNC_CONFIG"},
			},
		},
		Action: syncAction(""),
		Commands: []*cli.Command{
			{
				Name:   string(domain.ModeCurrent),
				Usage:  "replace the current rate snapshot with the latest published table",
				Action: syncAction(domain.ModeCurrent),
			},
			{
				Name:   string(domain.ModeHistorical),
				Usage:  "append the latest published table to the historical log",
				Action: syncAction(domain.ModeHistorical),
			},
			{
				Name:  "serve",
				Usage: "run both syncs on a schedule and serve the stored rates over HTTP",
				Action: func(c *cli.Context) error {
					return app.Serve(c.Context, c.String("config"))
				},
			},
		},
	}
}

// syncAction runs one sync. Without a fixed mode the first argument picks it,
// and no argument means current.
func syncAction(fixed domain.SyncMode) cli.ActionFunc {
	return func(c *cli.Context) error {
		raw := string(fixed)
		if fixed == "" {
			raw = c.Args().First()
		}
		mode, err := domain.ParseSyncMode(raw)
		if err != nil {
			return err
		}
		if extra := c.Args().Len(); (fixed == "" && extra > 1) || (fixed != "" && extra > 0) {
			return fmt.Errorf("%w: unexpected arguments %v", domain.ErrUnknownMode, c.Args().Slice())
		}
		_, err = app.RunOnce(c.Context, c.String("config"), mode)
		return err
	}
}

// exitLog reports how long the process ran; atexit calls it on every exit path.
func exitLog(start time.Time) func() {
	return func() {
		logrus.WithField("elapsed", time.Since(start).Round(time.Millisecond).String()).Info("fxsync exiting")
	}
}
