package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/progress"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage reading sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a reading session scored elsewhere",
	Example: `  readingrally session add --wpm 95 --accuracy 92 --book whiskers --completed
  readingrally session add --wpm 70 --accuracy 88 --fluency 80 --seconds 90 --date 2026-03-02`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		wpm, _ := f.GetFloat64("wpm")
		accuracy, _ := f.GetFloat64("accuracy")
		fluency, _ := f.GetFloat64("fluency")
		seconds, _ := f.GetInt("seconds")
		book, _ := f.GetString("book")
		completed, _ := f.GetBool("completed")
		day, _ := f.GetString("date")

		rec := progress.SessionRecord{
			WordsPerMinute:  wpm,
			Accuracy:        accuracy,
			Fluency:         fluency,
			DurationSeconds: seconds,
			BookID:          book,
			Completed:       completed,
		}
		if !f.Changed("fluency") {
			rec.Fluency = accuracy
		}
		if day != "" {
			d, err := time.ParseInLocation(time.DateOnly, day, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", day, err)
			}
			// Noon keeps the record on the same calendar day in any zone.
			rec.Date = d.Add(12 * time.Hour)
		}
		if rec.Completed && rec.BookID == "" {
			return fmt.Errorf("--completed needs --book")
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
		res, err := svc.Record(ctx, rec)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Recorded session %s\n", res.Record.ID)
		fmt.Fprintf(out, "+%d points (%d total), level %d, streak %d\n",
			res.PointsEarned, res.TotalPoints, res.Progress.Level, res.Progress.Streak)
		for _, b := range res.Badges {
			fmt.Fprintf(out, "%s %s badge\n", b.Icon, b.Name)
		}
		for _, a := range res.Progress.Unlocked {
			fmt.Fprintf(out, "%s Achievement: %s\n", a.Icon, a.Name)
		}
		return nil
	},
}

func init() {
	f := sessionAddCmd.Flags()
	f.Float64("wpm", 0, "Words per minute")
	f.Float64("accuracy", 0, "Accuracy percentage (0-100)")
	f.Float64("fluency", 0, "Fluency percentage (0-100, defaults to accuracy)")
	f.Int("seconds", 0, "Reading time in seconds")
	f.String("book", "", "Passage or book id")
	f.Bool("completed", false, "The whole book was read")
	f.String("date", "", "Day of the reading (YYYY-MM-DD, defaults to now)")
	_ = sessionAddCmd.MarkFlagRequired("wpm")
	_ = sessionAddCmd.MarkFlagRequired("accuracy")

	sessionCmd.AddCommand(sessionAddCmd)
}
