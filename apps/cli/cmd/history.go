package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded executions",
	Long: `Show the most recent executions recorded in the history database.
Recording is enabled by the "history" config key or the --history flag.

Examples:
  hitreq history --history runs.db
  hitreq history -n 50 -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if s.store == nil {
			return withExitCode(ExitConfigError, errors.New("no history database configured (set \"history\" in config or pass --history)"))
		}
		entries, err := s.store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		s.formatter.FormatHistory(entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", getEnvInt("HITREQ_HISTORY_LIMIT", 20), "Number of entries to show (env: HITREQ_HISTORY_LIMIT)")
}
