package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/app"
	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/screens/home"
	"github.com/readingrally/readingrally/internal/screens/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.service(ctx)
	if err != nil {
		return err
	}
	catalog, err := e.catalog()
	if err != nil {
		return err
	}

	opts := home.Options{
		Profile: svc,
		Catalog: catalog,
		Grade:   e.cfg.Session.Grade,
		Events:  e.store.EventRepo(),
	}

	analyzer, err := e.analyzer(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Reading analysis not configured:", err)
		fmt.Fprintln(os.Stderr, "You can browse progress and rewards, but not start a reading.")
		e.log.Warn("analysis unavailable", zap.Error(err))
	} else {
		opts.ReadingEnabled = true
		opts.StartReading = func(p passages.Passage, grade int) screen.Screen {
			rec := audio.NewFFmpegRecorder(e.cfg.Audio, e.log)
			return session.New(reading.NewSession(p, grade, rec, analyzer), svc, e.log)
		}
	}

	skip, _ := cmd.Flags().GetBool("skip-splash")
	return app.Run(app.Options{Home: opts, SkipSplash: skip, Log: e.log})
}

func init() {
	rootCmd.Flags().Bool("skip-splash", false, "Start on the home screen")
}
