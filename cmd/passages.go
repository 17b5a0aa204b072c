package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readingrally/readingrally/internal/config"
	"github.com/readingrally/readingrally/internal/passages"
)

var passagesCmd = &cobra.Command{
	Use:   "passages",
	Short: "List the reading passages",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetInt("grade")
		path, _ := cmd.Flags().GetString("file")

		if path == "" {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			path = cfg.Passages
		}
		catalog, err := passages.Load(path)
		if err != nil {
			return fmt.Errorf("load passages: %w", err)
		}

		list := catalog.All()
		if grade > 0 {
			list = catalog.ForGrade(grade)
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No passages found.")
			return nil
		}
		fmt.Fprintf(out, "%-24s  %-30s  %5s  %5s  %4s  %s\n",
			"ID", "Title", "Grade", "Words", "Diff", "Category")
		fmt.Fprintln(out, strings.Repeat("─", 86))
		for _, p := range list {
			fmt.Fprintf(out, "%-24s  %-30s  %5d  %5d  %4d  %s\n",
				truncate(p.ID, 24), truncate(p.Title, 30), p.GradeLevel, p.WordCount(), p.Difficulty, p.Category)
		}
		return nil
	},
}

func init() {
	passagesCmd.Flags().IntP("grade", "g", 0, "Only passages suited to this grade")
	passagesCmd.Flags().StringP("file", "f", "", "Catalog file to merge instead of the configured one")
}
