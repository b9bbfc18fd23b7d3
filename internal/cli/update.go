package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owkin/substra/internal/printer"
	"github.com/owkin/substra/internal/sdk"
)

func updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update links between registered assets",
	}

	cmd.AddCommand(updateDataSampleCommand())
	cmd.AddCommand(updateDatasetCommand())

	return cmd
}

func updateDataSampleCommand() *cobra.Command {
	var flags struct {
		dataManagerKeys []string
		raw             bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		if len(flags.dataManagerKeys) == 0 {
			return fmt.Errorf("at least one --data-manager-key is required")
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		asset, err := client.UpdateDataSamples(cmd.Context(), args, flags.dataManagerKeys)
		if err != nil {
			return fmt.Errorf("updating data samples: %w", err)
		}
		return printer.ForKind(sdk.KindDataSample).PrintSingle(Stdout, asset, flags.raw, false)
	}

	cmd := &cobra.Command{
		Use:     "data_sample KEY...",
		Aliases: []string{"data_samples"},
		Short:   "Attach data samples to additional datasets",
		Args:    cobra.MinimumNArgs(1),
		Run:     exitOnError(run),
	}
	cmd.Flags().StringSliceVar(&flags.dataManagerKeys, "data-manager-key", nil, "key of a dataset to attach the samples to (repeatable)")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func updateDatasetCommand() *cobra.Command {
	var flags struct {
		objectiveKey string
		raw          bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		asset, err := client.UpdateDataset(cmd.Context(), args[0], flags.objectiveKey)
		if err != nil {
			return fmt.Errorf("updating dataset: %w", err)
		}
		return printer.ForKind(sdk.KindDataset).PrintSingle(Stdout, asset, flags.raw, false)
	}

	cmd := &cobra.Command{
		Use:   "dataset KEY",
		Short: "Link a dataset with an objective",
		Args:  cobra.ExactArgs(1),
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVar(&flags.objectiveKey, "objective-key", "", "key of the objective to link")
	cmd.MarkFlagRequired("objective-key")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}
