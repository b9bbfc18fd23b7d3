package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owkin/substra/internal/printer"
)

func listCommand() *cobra.Command {
	var flags struct {
		filters []string
		raw     bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		assets, err := client.List(cmd.Context(), kind, flags.filters)
		if err != nil {
			return fmt.Errorf("listing %ss: %w", kind.PrettyName(), err)
		}
		return printer.ForKind(kind).PrintList(Stdout, assets, flags.raw)
	}

	cmd := &cobra.Command{
		Use:   "list ASSET",
		Short: "List assets of a kind",
		Example: `  substra list algo
  substra list traintuple -f "traintuple:tag:v1"
  substra list dataset --raw`,
		Args: cobra.ExactArgs(1),
		Run:  exitOnError(run),
	}
	cmd.Flags().StringArrayVarP(&flags.filters, "filter", "f", nil, "search filter clause (repeatable, OR-ed together)")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}
