package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/report"
	"github.com/readingrally/readingrally/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export progress and rewards to an Excel workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "readingrally-progress.xlsx"
		if len(args) == 1 {
			path = args[0]
		}

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
		events, err := e.store.EventRepo().QueryRewardEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var data report.Data
		svc.View(func(p *profile.Profile) {
			data = report.FromProfile(p, events)
		})
		if err := report.Save(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sessions to %s\n", len(data.Sessions), path)
		return nil
	},
}
