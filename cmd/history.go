package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/empathiz/internal/review"
	"github.com/abhisek/empathiz/internal/scoring"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored test reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent test reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ReviewRepo().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No reports yet. Run empathiz to take a test.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-14s  %7s  %7s  %s\n",
			"ID", "Date", "Topic", "Prompts", "Overall", "Band")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range recs {
			fmt.Printf("%-8s  %-19s  %-14s  %7d  %7.1f  %s\n",
				truncate(r.ID, 8),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.TopicName, 14),
				r.PromptCount,
				r.OverallScore,
				scoring.BandOf(r.OverallScore),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a full test report (ID prefixes are accepted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.ReviewRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("report %s not found", args[0])
		}
		rep, err := review.Decode(*rec)
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %s\n", rep.ID)
		fmt.Printf("Session:   %s\n", rep.SessionID)
		fmt.Printf("Time:      %s\n", rep.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Topic:     %s\n", rep.TopicName)
		fmt.Printf("Duration:  %s\n", rep.Duration.Round(time.Second))
		fmt.Printf("Overall:   %.1f (%s)\n", rep.Overall, rep.Band)
		fmt.Println()
		fmt.Println(rep.Feedback)
		if rep.Coaching != "" {
			fmt.Println()
			fmt.Println(rep.Coaching)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("AVERAGES")
		fmt.Println(sep)
		for _, a := range rep.Averages {
			if a.Samples == 0 {
				fmt.Printf("%-18s  %5s\n", a.Label, "n/a")
				continue
			}
			fmt.Printf("%-18s  %5.1f\n", a.Label, a.Average)
		}

		for _, p := range rep.Prompts {
			fmt.Println(sep)
			fmt.Printf("%d. %s\n", p.PromptIndex+1, p.Question)
			fmt.Println(sep)
			fmt.Printf("Answer: %s\n\n", p.Answer)
			for _, d := range p.Dimensions {
				score := "  n/a"
				if d.Present {
					score = fmt.Sprintf("%5.1f", d.Score)
				}
				fmt.Printf("  %-18s  %s  %s\n", d.Label, score, d.Reasoning)
			}
			fmt.Printf("  %-18s  %5.1f  %s\n", "Overall", p.Overall, p.Band)
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of reports to show")
	historyCmd.Flags().AddFlagSet(historyListCmd.Flags())

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
