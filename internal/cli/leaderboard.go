package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/owkin/substra/internal/printer"
)

// leaderboardURL builds the web frontend address of an objective
// leaderboard. The profile URL must serve the frontend alongside the API.
func leaderboardURL(base, objectiveKey, sort string) string {
	return fmt.Sprintf("%s/objective/%s/leaderboard/?sort=%s",
		strings.TrimSuffix(base, "/"), objectiveKey, sort)
}

func leaderboardCommand() *cobra.Command {
	var flags struct {
		sort    string
		expand  bool
		raw     bool
		browser bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		objectiveKey := args[0]

		if flags.browser {
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			url := leaderboardURL(profile.URL, objectiveKey, flags.sort)
			fmt.Fprintf(Stdout, "Opening %s\n", url)
			return browser.OpenURL(url)
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		board, err := client.Leaderboard(cmd.Context(), objectiveKey, flags.sort)
		if err != nil {
			return fmt.Errorf("fetching leaderboard: %w", err)
		}
		return printer.PrintLeaderboard(Stdout, board, flags.raw, flags.expand)
	}

	cmd := &cobra.Command{
		Use:   "leaderboard OBJECTIVE_KEY",
		Short: "Display the leaderboard of an objective",
		Args:  cobra.ExactArgs(1),
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVar(&flags.sort, "sort", "desc", "sort order of the testtuple performances (asc or desc)")
	cmd.Flags().BoolVar(&flags.expand, "expand", false, "display key lists in full")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	cmd.Flags().BoolVar(&flags.browser, "browser", false, "open the leaderboard in a web browser (the profile URL must serve the frontend)")
	return cmd
}
