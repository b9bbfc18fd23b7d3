package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owkin/substra/internal/printer"
)

func getCommand() *cobra.Command {
	var flags struct {
		expand bool
		raw    bool
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

		asset, err := client.Get(cmd.Context(), kind, args[1])
		if err != nil {
			return fmt.Errorf("getting %s: %w", kind.PrettyName(), err)
		}
		return printer.ForKind(kind).PrintSingle(Stdout, asset, flags.raw, flags.expand)
	}

	cmd := &cobra.Command{
		Use:   "get ASSET KEY",
		Short: "Display a single asset",
		Args:  cobra.ExactArgs(2),
		Run:   exitOnError(run),
	}
	cmd.Flags().BoolVar(&flags.expand, "expand", false, "display key lists in full")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}
