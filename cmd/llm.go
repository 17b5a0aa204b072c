package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/llm"
	"github.com/readingrally/readingrally/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect transcription and analysis requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		t := newTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
		rows := 0
		for _, ev := range events {
			if purpose != "" && ev.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !ev.Success {
				ok = "✗"
			}
			t.Row(
				strconv.Itoa(ev.ID),
				ev.Timestamp.Local().Format(timeLayout),
				ev.Purpose,
				truncate(ev.Model, 28),
				strconv.Itoa(ev.InputTokens),
				strconv.Itoa(ev.OutputTokens),
				strconv.FormatInt(ev.LatencyMs, 10),
				ok,
			)
			rows++
		}

		out := cmd.OutOrStdout()
		if rows == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		fields := [][2]string{
			{"ID", strconv.Itoa(ev.ID)},
			{"Time", ev.Timestamp.Local().Format(timeLayout)},
			{"Provider", ev.Provider},
			{"Model", ev.Model},
			{"Purpose", ev.Purpose},
			{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
			{"Success", strconv.FormatBool(ev.Success)},
			{"Error", ev.ErrorMessage},
		}
		for _, f := range fields {
			if f[1] != "" {
				fmt.Fprintf(out, "%-10s %s\n", f[0]+":", f[1])
			}
		}
		printBody(out, "REQUEST", ev.RequestBody)
		printBody(out, "RESPONSE", ev.ResponseBody)
		return nil
	},
}

func printBody(w io.Writer, title, body string) {
	rule := strings.Repeat("─", 60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, title, rule, body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		byPurpose, err := e.store.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		usage := newTable("Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		var calls, in, outTok int
		for _, st := range byPurpose {
			usage.Row(st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
				strconv.Itoa(st.OutputTokens), strconv.Itoa(st.InputTokens+st.OutputTokens),
				strconv.FormatInt(st.AvgLatencyMs, 10))
			calls += st.Calls
			in += st.InputTokens
			outTok += st.OutputTokens
		}
		usage.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTok), strconv.Itoa(in+outTok), "")
		fmt.Fprintf(out, "Usage by purpose\n%s\n", usage.String())

		byModel, err := e.store.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		cost := newTable("Model", "Calls", "Input", "Output", "Cost")
		var total float64
		var unpriced, perMinute []string
		for _, mu := range byModel {
			row := []string{truncate(mu.Model, 32), strconv.Itoa(mu.Calls),
				strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens)}
			price := llm.LookupCost(mu.Model)
			switch {
			case price == nil:
				unpriced = append(unpriced, mu.Model)
				row = append(row, "?")
			case price.PerMinute > 0:
				// Audio is billed by length, which the event log does not keep.
				perMinute = append(perMinute, mu.Model)
				row[2], row[3] = "-", "-"
				row = append(row, "per-min")
			default:
				c := price.Cost(mu.InputTokens, mu.OutputTokens)
				total += c
				row = append(row, formatCost(c))
			}
			cost.Row(row...)
		}
		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		cost.Row(label, "", "", "", formatCost(total))
		fmt.Fprintf(out, "\nEstimated cost (USD)\n%s\n", cost.String())

		if len(unpriced) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
		}
		if len(perMinute) > 0 {
			fmt.Fprintf(out, "Transcription (%s) is billed per audio minute and not included.\n",
				strings.Join(perMinute, ", "))
		}
		return nil
	},
}

// newTable is a plain bordered table; the CLI output is often piped, so
// it carries no colors.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (transcription or reading-analysis)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
