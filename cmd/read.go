package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/ui/components"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Score one reading without the TUI",
	Long: `Score one reading of a passage and apply it to your progress.

With --audio the given recording is scored. Otherwise the microphone is
recorded until you press Enter or the grade's time limit runs out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		grade := e.cfg.Session.Grade
		if cmd.Flags().Changed("grade") {
			grade, _ = cmd.Flags().GetInt("grade")
		}
		id, _ := cmd.Flags().GetString("passage")
		clip, _ := cmd.Flags().GetString("audio")

		catalog, err := e.catalog()
		if err != nil {
			return err
		}
		p, err := catalog.Pick(id, grade)
		if err != nil {
			return err
		}
		analyzer, err := e.analyzer(ctx)
		if err != nil {
			return err
		}
		svc, err := e.service(ctx)
		if err != nil {
			return err
		}

		var rec audio.Recorder
		if clip != "" {
			rec = audio.NewFileRecorder(clip)
		} else {
			rec = audio.NewFFmpegRecorder(e.cfg.Audio, e.log)
		}
		s := reading.NewSession(p, grade, rec, analyzer)

		out := cmd.OutOrStdout()
		t := s.Timing()
		fmt.Fprintf(out, "%s  (grade %d, %d words, up to %ds, goal %d WPM)\n\n",
			p.Title, t.Grade, p.WordCount(), int(t.MaxTime.Seconds()), t.ExpectedWPM)

		if err := s.Begin(); err != nil {
			return err
		}
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("start recording: %w", err)
		}
		if clip == "" {
			for _, line := range components.WrapWords(p.Content, 72) {
				fmt.Fprintln(out, "  "+line)
			}
			fmt.Fprintf(out, "\nRecording. Read aloud, then press Enter (stops by itself after %ds).\n",
				int(t.MaxTime.Seconds()))
			waitForReader(ctx, cmd.InOrStdin(), out, t.MaxTime)
			if err := ctx.Err(); err != nil {
				s.Abort()
				return err
			}
		}

		fmt.Fprintln(out, "Analyzing your reading...")
		outcome, err := s.Complete(ctx)
		if err != nil {
			return err
		}
		res, saveErr := svc.Finish(ctx, outcome)
		printOutcome(out, outcome, res)
		if saveErr != nil {
			return fmt.Errorf("progress could not be saved: %w", saveErr)
		}
		return nil
	},
}

// waitForReader returns on Enter, when limit passes, or when ctx ends.
func waitForReader(ctx context.Context, in io.Reader, out io.Writer, limit time.Duration) {
	enter := make(chan struct{})
	go func() {
		bufio.NewReader(in).ReadString('\n')
		close(enter)
	}()
	timer := time.NewTimer(limit)
	defer timer.Stop()
	select {
	case <-enter:
	case <-timer.C:
		fmt.Fprintln(out, "Time's up!")
	case <-ctx.Done():
	}
}

func printOutcome(w io.Writer, o *reading.Outcome, r *reading.Result) {
	a := o.Analysis
	secs := int(o.Elapsed.Seconds())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Time:       %d:%02d\n", secs/60, secs%60)
	fmt.Fprintf(w, "Pace:       %.0f WPM (goal %d)\n", a.WordsPerMinute, o.ExpectedWPM)
	fmt.Fprintf(w, "Accuracy:   %.0f%%\n", a.Accuracy)
	fmt.Fprintf(w, "Fluency:    %.0f%%\n", a.Fluency)
	if a.Completed() {
		fmt.Fprintln(w, "Completed:  yes")
	} else {
		fmt.Fprintf(w, "Completed:  no (read %.0f%%)\n", a.Coverage*100)
	}
	if a.Feedback != "" {
		fmt.Fprintf(w, "\n%s\n", a.Feedback)
	}
	if words := a.Pronunciation.PracticeWords; len(words) > 0 {
		fmt.Fprintf(w, "Practice words: %s\n", strings.Join(words, ", "))
	}
	if r == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "+%d points (%d for reading, %d total)\n", r.PointsEarned, r.SessionPoints, r.TotalPoints)
	if r.Progress.LeveledUp() {
		fmt.Fprintf(w, "Level up! You're now a %s\n", progress.LevelTitle(r.Progress.Level))
	}
	for _, b := range r.Badges {
		fmt.Fprintf(w, "%s %s badge (%s)\n", b.Icon, b.Name, b.Rarity.DisplayName())
	}
	for _, m := range r.Milestones {
		fmt.Fprintf(w, "Milestone: %s (+%d)\n", m.Name, m.Reward.Points)
	}
	for _, ach := range r.Progress.Unlocked {
		fmt.Fprintf(w, "%s Achievement: %s\n", ach.Icon, ach.Name)
	}
	if r.ArchivedAt != "" {
		fmt.Fprintf(w, "Recording saved to %s\n", r.ArchivedAt)
	}
}

func init() {
	readCmd.Flags().StringP("audio", "a", "", "Score an existing recording instead of the microphone")
	readCmd.Flags().StringP("passage", "p", "", "Passage id (see `readingrally passages`)")
	readCmd.Flags().IntP("grade", "g", 3, "Grade level for timing and passage choice")
}
