package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level, averages, streak and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

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
		svc.View(func(p *profile.Profile) {
			printProgress(cmd.OutOrStdout(), p.Progress, limit)
		})
		return nil
	},
}

func printProgress(w io.Writer, t *progress.Tracker, limit int) {
	level := t.CurrentLevel()
	fmt.Fprintf(w, "Level %d Reader\n", level)
	if req, ok := progress.RequirementFor(level + 1); ok {
		fmt.Fprintf(w, "Next level:   %d%% (needs %.0f WPM, %.0f%% accuracy, %d books)\n",
			t.NextLevelProgress(), req.MinWPM, req.MinAccuracy, req.BooksRequired)
	} else {
		fmt.Fprintln(w, "Next level:   top level reached")
	}
	fmt.Fprintf(w, "Average pace: %.0f WPM\n", t.AverageWPM())
	fmt.Fprintf(w, "Accuracy:     %.0f%%\n", t.AverageAccuracy())
	fmt.Fprintf(w, "Streak:       %d days\n", t.ActiveStreak())
	fmt.Fprintf(w, "Books:        %d\n", t.BooksCompleted())
	fmt.Fprintf(w, "Minutes read: %d\n", t.TotalMinutesRead())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Achievements")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, a := range t.Achievements() {
		mark := "○"
		if a.Achieved {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %s %-16s %3.0f%%  %s\n", mark, a.Icon, a.Name, a.Percent()*100, a.Description)
	}

	history := t.History()
	if len(history) == 0 {
		fmt.Fprintln(w, "\nNo sessions yet.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent sessions")
	fmt.Fprintf(w, "%-10s  %6s  %6s  %6s  %6s  %-16s  %s\n",
		"Date", "WPM", "Acc", "Flu", "Secs", "Book", "Done")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	shown := 0
	for i := len(history) - 1; i >= 0 && (limit <= 0 || shown < limit); i-- {
		r := history[i]
		done := ""
		if r.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%-10s  %6.0f  %5.0f%%  %5.0f%%  %6d  %-16s  %s\n",
			r.Date.Local().Format("2006-01-02"), r.WordsPerMinute, r.Accuracy, r.Fluency,
			r.DurationSeconds, truncate(r.BookID, 16), done)
		shown++
	}
}

func init() {
	progressCmd.Flags().IntP("limit", "n", 10, "Number of recent sessions to show (0 for all)")
}
