package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Show points, badges, milestones and the reward log",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("log")

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
		out := cmd.OutOrStdout()
		svc.View(func(p *profile.Profile) {
			printRewards(out, p.Rewards)
		})

		if limit == 0 {
			return nil
		}
		events, err := e.store.EventRepo().QueryRewardEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printRewardLog(out, events)
		return nil
	},
}

func printRewards(w io.Writer, l *rewards.Ledger) {
	fmt.Fprintf(w, "Points: %d\n", l.Points())
	fmt.Fprintf(w, "Streak: %d days\n", l.ActiveStreak())

	held := make(map[string]rewards.Badge)
	for _, b := range l.Badges() {
		held[b.ID] = b
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Badges (%d of %d)\n", len(held), len(rewards.BadgeCatalog()))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, def := range rewards.BadgeCatalog() {
		if b, ok := held[def.ID]; ok {
			fmt.Fprintf(w, "✓ %s %-16s %-10s %s\n", def.Icon, def.Name, def.Rarity.DisplayName(),
				b.DateEarned.Local().Format("2006-01-02"))
			continue
		}
		fmt.Fprintf(w, "○ %s %-16s %-10s %s (+%d)\n", def.Icon, def.Name, def.Rarity.DisplayName(),
			def.Description, def.Points)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Milestones")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, m := range l.Milestones() {
		status := fmt.Sprintf("%.0f / %.0f", m.Progress, m.Requirement)
		if m.Completed {
			status = "done"
		}
		fmt.Fprintf(w, "%-20s  %-12s  %s\n", m.Name, status, m.Description)
	}
}

func printRewardLog(w io.Writer, events []store.RewardEventRecord) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reward log")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(events) == 0 {
		fmt.Fprintln(w, "No reward events yet.")
		return
	}
	for _, e := range events {
		detail := e.Reason
		switch e.Kind {
		case string(rewards.EventBadge):
			detail = "badge " + e.BadgeID
		case string(rewards.EventMilestone):
			detail = "milestone " + e.MilestoneID
		}
		fmt.Fprintf(w, "%s  %+5d  %-28s  total %d\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Points, truncate(detail, 28), e.Total)
	}
}

func init() {
	rewardsCmd.Flags().Int("log", 20, "Number of reward log entries to show (0 to hide)")
}
