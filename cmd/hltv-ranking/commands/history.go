package commands

import (
	"errors"
	"fmt"

	"hltv-ranking/pkg/textutil"

	"github.com/spf13/cobra"
)

func newHistoryCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "history <team> [--archive <dsn>]",
		Short: "Prints the archived standings of a team.",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.archive == nil {
				return usageError{err: errors.New("no archive, pass --archive or set archive in the config")}
			}
			ctx := cmd.Context()

			names, err := s.archive.TeamNames(ctx)
			if err != nil {
				return err
			}
			match, ok := textutil.ClosestMatch(args[0], names, minTeamSimilarity)
			if !ok {
				return fmt.Errorf("no team named like %q in the archive", args[0])
			}

			entries, err := s.archive.TeamHistory(ctx, match.Value)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), match.Value, entries)
			return nil
		},
	}
}
