package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pacfix/pacfix/pkg/config"
	"github.com/pacfix/pacfix/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit  int
		events bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past resolution runs",
		Long: `List resolution runs recorded in the history database, newest
first, with their target, final status and duration.`,
		Example: `  # Show the last runs
  pacfix history

  # Show the last 5 runs with their event trails
  pacfix history -n 5 --events`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return fmt.Errorf("run history is disabled (history_db is empty)")
			}

			ctx := cmd.Context()
			store, err := stores.NewSQLiteStore(cfg.HistoryDB)
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			runs, err := store.ListRuns(ctx, limit, 0)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No resolution runs recorded yet.")
				return nil
			}

			for _, run := range runs {
				final := "-"
				if run.FinalStatus != nil {
					final = *run.FinalStatus
				}
				duration := "-"
				if run.CompletedAt != nil {
					duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				fmt.Printf("%s  %-20s  %-10s  %-25s  %s\n",
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Target, run.Status, final, duration)
				if run.Error != nil {
					fmt.Printf("    error: %s\n", *run.Error)
				}

				if events {
					trail, err := store.ListEventsByRun(ctx, run.ID)
					if err != nil {
						return err
					}
					for _, ev := range trail {
						fmt.Printf("    %s  %-7s  %s\n",
							ev.Timestamp.Local().Format("15:04:05"), ev.Level, ev.Message)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show")
	cmd.Flags().BoolVar(&events, "events", false, "include each run's event trail")

	return cmd
}
