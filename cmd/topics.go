package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/empathiz/internal/logging"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics from the configured catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		showPrompts, _ := cmd.Flags().GetBool("prompts")

		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		log, err := logging.New(cfg.Logging())
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}

		ctx := cmd.Context()
		cat, err := buildCatalog(ctx, cfg, st, log)
		if err != nil {
			return err
		}
		topics, err := cat.Topics(ctx)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("No topics found.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %s\n", "ID", "Topic", "Description")
		fmt.Println(strings.Repeat("─", 72))
		for _, t := range topics {
			fmt.Printf("%-5d  %-16s  %s\n", t.ID, t.Name, t.Description)
			if !showPrompts {
				continue
			}
			prompts, err := cat.Prompts(ctx, t.ID)
			if err != nil {
				return err
			}
			for i, p := range prompts {
				fmt.Printf("       %d. %s\n", i+1, p.Context)
			}
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().BoolP("prompts", "p", false, "Also list each topic's prompts")
}
