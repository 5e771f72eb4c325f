package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maborak/ai-course-generator/internal/document"
	"github.com/maborak/ai-course-generator/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation runs",
	Long: `History reads the run ledger and prints the most recent generation
runs, newest first: what was generated, with which engine and model, token
usage, duration and artifact counts.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.LedgerPath == "" {
		return fmt.Errorf("run ledger is disabled (ledger_path is empty)")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTOPIC\tENGINE\tCH\tTOKENS\tELAPSED\tSTATUS\tARTIFACTS")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s/%s\t%d\t%d\t%s\t%s\t%dP %dS %dF\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Topic,
			r.Engine, r.Model,
			r.Quantity,
			r.TotalTokens(),
			document.FormatElapsed(r.Elapsed),
			r.Status,
			r.Produced, r.Skipped, r.Failed,
		)
	}
	return w.Flush()
}
