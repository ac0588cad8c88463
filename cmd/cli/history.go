package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/limaJavier/timetabling-ga/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the runs recorded in a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("history.store")
			if path == "" {
				return fmt.Errorf("a store must be specified")
			}
			runs, err := store.Open(path)
			if err != nil {
				return err
			}
			defer runs.Close()

			summaries, err := runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(summaries)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Id", "Created", "Seed", "Hard", "Soft", "Generations", "Elapsed", "Reason"})
			for _, summary := range summaries {
				tw.AppendRow(table.Row{
					summary.Id,
					summary.CreatedAt.Local().Format(time.DateTime),
					summary.Seed,
					summary.Hard,
					fmt.Sprintf("%.2f", summary.Soft),
					summary.Generations,
					(time.Duration(summary.Elapsed) * time.Millisecond).String(),
					summary.Reason,
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().String("store", "timetabling.db", "SQLite database holding the runs")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list (0 lists all)")
	_ = viper.BindPFlag("history.store", cmd.Flags().Lookup("store"))
	return cmd
}
