package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func downloadCommand() *cobra.Command {
	var flags struct {
		folder string
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

		spin := newSpinner(fmt.Sprintf("Downloading %s...", kind.PrettyName()))
		path, err := client.Download(cmd.Context(), kind, args[1], flags.folder)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("downloading %s: %w", kind.PrettyName(), err)
		}

		fmt.Fprintf(Stdout, "Downloaded to %s\n", path)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "download ASSET KEY",
		Short: "Download the file stored for an asset",
		Long:  "Download the file stored for an asset: the algo archive, the dataset opener or the objective metrics.",
		Args:  cobra.ExactArgs(2),
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVar(&flags.folder, "folder", ".", "destination folder")
	return cmd
}
