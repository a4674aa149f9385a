package commands

import (
	"fmt"

	"hltv-ranking/internal/scrapers/hltv"
	"hltv-ranking/pkg/textutil"

	"github.com/spf13/cobra"
)

// minTeamSimilarity is the lowest Jaro-Winkler similarity a team name may
// have to the searched name.
const minTeamSimilarity = 0.7

func newShowCmd(s *session) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "show [<ranking_at>] [--team <name>]",
		Short: "Prints a ranking as a table.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			ranking, err := s.exporter().Ranking(cmd.Context(), target)
			if err != nil {
				return err
			}

			if team != "" {
				names := make([]string, len(ranking.Teams))
				for i, t := range ranking.Teams {
					names[i] = t.Name
				}
				match, ok := textutil.ClosestMatch(team, names, minTeamSimilarity)
				if !ok {
					return fmt.Errorf("no team named like %q in the ranking of %s", team, ranking.Date)
				}
				ranking.Teams = []hltv.Team{ranking.Teams[match.Index]}
			}

			renderRanking(cmd.OutOrStdout(), ranking)
			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Only show the team with the closest name.")

	return cmd
}
