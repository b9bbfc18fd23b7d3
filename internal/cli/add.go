package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/owkin/substra/internal/printer"
	"github.com/owkin/substra/internal/sdk"
)

func addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an asset on the platform",
	}

	cmd.AddCommand(addAlgoCommand())
	cmd.AddCommand(addDatasetCommand())
	cmd.AddCommand(addObjectiveCommand())
	cmd.AddCommand(addDataSampleCommand())
	cmd.AddCommand(addTraintupleCommand())
	cmd.AddCommand(addTesttupleCommand())
	cmd.AddCommand(addComputePlanCommand())

	return cmd
}

// newSpinner returns a started spinner with the given suffix. The caller
// must Stop it.
func newSpinner(suffix string) *spinner.Spinner {
	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	spin.Suffix = " " + suffix
	spin.Start()
	return spin
}

func printAdded(kind sdk.Kind, asset sdk.Asset, raw bool) error {
	return printer.ForKind(kind).PrintSingle(Stdout, asset, raw, false)
}

// printTrackingHint tells the user how to follow a registered tuple, the
// way the platform examples do.
func printTrackingHint(kind sdk.Kind, asset sdk.Asset) {
	fmt.Fprintln(Stdout)
	fmt.Fprintf(Stdout, "Run the following command to track the status of the %s:\n", kind.PrettyName())
	fmt.Fprintf(Stdout, "\tsubstra get %s %s\n", kind, sdk.Key(asset))
}

func addAlgoCommand() *cobra.Command {
	var flags struct {
		filename string
		existOK  bool
		raw      bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		var spec sdk.AlgoSpec
		if err := loadManifest(flags.filename, &spec, &spec.File, &spec.Description); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		spin := newSpinner("Adding algo...")
		asset, err := client.AddAlgo(cmd.Context(), spec, flags.existOK)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("adding algo: %w", err)
		}
		return printAdded(sdk.KindAlgo, asset, flags.raw)
	}

	cmd := &cobra.Command{
		Use:   "algo",
		Short: "Register an algo",
		Example: `  # algo.yaml references the algo archive (or a directory with a
  # Dockerfile) and its markdown description.
  substra add algo -f algo.yaml`,
		Args: cobra.NoArgs,
		Run:  exitOnError(run),
	}
	cmd.Flags().StringVarP(&flags.filename, "filename", "f", "", "manifest file")
	cmd.MarkFlagRequired("filename")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addDatasetCommand() *cobra.Command {
	var flags struct {
		filename string
		existOK  bool
		raw      bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		var spec sdk.DatasetSpec
		if err := loadManifest(flags.filename, &spec, &spec.DataOpener, &spec.Description); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		spin := newSpinner("Adding dataset...")
		asset, err := client.AddDataset(cmd.Context(), spec, flags.existOK)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("adding dataset: %w", err)
		}
		return printAdded(sdk.KindDataset, asset, flags.raw)
	}

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Register a dataset",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVarP(&flags.filename, "filename", "f", "", "manifest file")
	cmd.MarkFlagRequired("filename")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addObjectiveCommand() *cobra.Command {
	var flags struct {
		filename string
		existOK  bool
		raw      bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		var spec sdk.ObjectiveSpec
		if err := loadManifest(flags.filename, &spec, &spec.Metrics, &spec.Description); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		spin := newSpinner("Adding objective...")
		asset, err := client.AddObjective(cmd.Context(), spec, flags.existOK)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("adding objective: %w", err)
		}
		return printAdded(sdk.KindObjective, asset, flags.raw)
	}

	cmd := &cobra.Command{
		Use:   "objective",
		Short: "Register an objective",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVarP(&flags.filename, "filename", "f", "", "manifest file")
	cmd.MarkFlagRequired("filename")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addDataSampleCommand() *cobra.Command {
	var flags struct {
		dataManagerKeys []string
		testOnly        bool
		existOK         bool
		raw             bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		spec := sdk.DataSampleSpec{
			Paths:           args,
			DataManagerKeys: flags.dataManagerKeys,
			TestOnly:        flags.testOnly,
		}
		if err := validator.New().Struct(spec); err != nil {
			return fmt.Errorf("invalid data sample spec: %w", err)
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		spin := newSpinner(fmt.Sprintf("Adding %d data sample(s)...", len(args)))
		asset, err := client.AddDataSamples(cmd.Context(), spec, flags.existOK)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("adding data samples: %w", err)
		}
		return printAdded(sdk.KindDataSample, asset, flags.raw)
	}

	cmd := &cobra.Command{
		Use:     "data_sample PATH...",
		Aliases: []string{"data_samples"},
		Short:   "Register data sample folders",
		Args:    cobra.MinimumNArgs(1),
		Run:     exitOnError(run),
	}
	cmd.Flags().StringSliceVar(&flags.dataManagerKeys, "data-manager-key", nil, "key of a dataset the samples belong to (repeatable)")
	cmd.Flags().BoolVar(&flags.testOnly, "test-only", false, "mark the samples as test data")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addTraintupleCommand() *cobra.Command {
	var flags struct {
		algoKey        string
		objectiveKey   string
		dataManagerKey string
		dataSampleKeys []string
		inModelKeys    []string
		tag            string
		computePlanID  string
		existOK        bool
		raw            bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		spec := sdk.TraintupleSpec{
			AlgoKey:             flags.algoKey,
			ObjectiveKey:        flags.objectiveKey,
			DataManagerKey:      flags.dataManagerKey,
			TrainDataSampleKeys: flags.dataSampleKeys,
			InModelKeys:         flags.inModelKeys,
			Tag:                 flags.tag,
			ComputePlanID:       flags.computePlanID,
		}
		if err := validator.New().Struct(spec); err != nil {
			return fmt.Errorf("invalid traintuple spec: %w", err)
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		asset, err := client.AddTraintuple(cmd.Context(), spec, flags.existOK)
		if err != nil {
			return fmt.Errorf("adding traintuple: %w", err)
		}
		if err := printAdded(sdk.KindTraintuple, asset, flags.raw); err != nil {
			return err
		}
		if !flags.raw {
			printTrackingHint(sdk.KindTraintuple, asset)
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "traintuple",
		Short: "Register a training task",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVar(&flags.algoKey, "algo-key", "", "key of the algo to train")
	cmd.Flags().StringVar(&flags.objectiveKey, "objective-key", "", "key of the objective to train against")
	cmd.Flags().StringVar(&flags.dataManagerKey, "data-manager-key", "", "key of the dataset providing the samples")
	cmd.Flags().StringSliceVar(&flags.dataSampleKeys, "data-sample-key", nil, "key of a train data sample (repeatable)")
	cmd.Flags().StringSliceVar(&flags.inModelKeys, "in-model-key", nil, "key of an input model (repeatable)")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "tag attached to the traintuple")
	cmd.Flags().StringVar(&flags.computePlanID, "compute-plan-id", "", "compute plan the traintuple belongs to")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addTesttupleCommand() *cobra.Command {
	var flags struct {
		traintupleKey  string
		dataManagerKey string
		dataSampleKeys []string
		tag            string
		existOK        bool
		raw            bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		spec := sdk.TesttupleSpec{
			TraintupleKey:      flags.traintupleKey,
			DataManagerKey:     flags.dataManagerKey,
			TestDataSampleKeys: flags.dataSampleKeys,
			Tag:                flags.tag,
		}
		if err := validator.New().Struct(spec); err != nil {
			return fmt.Errorf("invalid testtuple spec: %w", err)
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		asset, err := client.AddTesttuple(cmd.Context(), spec, flags.existOK)
		if err != nil {
			return fmt.Errorf("adding testtuple: %w", err)
		}
		if err := printAdded(sdk.KindTesttuple, asset, flags.raw); err != nil {
			return err
		}
		if !flags.raw {
			printTrackingHint(sdk.KindTesttuple, asset)
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "testtuple",
		Short: "Register a testing task",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVar(&flags.traintupleKey, "traintuple-key", "", "key of the traintuple whose model is tested")
	cmd.Flags().StringVar(&flags.dataManagerKey, "data-manager-key", "", "key of the dataset providing the test samples (defaults to the objective's test dataset)")
	cmd.Flags().StringSliceVar(&flags.dataSampleKeys, "data-sample-key", nil, "key of a test data sample (repeatable)")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "tag attached to the testtuple")
	cmd.Flags().BoolVar(&flags.existOK, "exist-ok", false, "return the existing asset instead of failing on conflict")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}

func addComputePlanCommand() *cobra.Command {
	var flags struct {
		filename string
		raw      bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		var spec sdk.ComputePlanSpec
		if err := loadManifest(flags.filename, &spec); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		spin := newSpinner("Adding compute plan...")
		asset, err := client.AddComputePlan(cmd.Context(), spec)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("adding compute plan: %w", err)
		}
		return printAdded(sdk.KindComputePlan, asset, flags.raw)
	}

	cmd := &cobra.Command{
		Use:   "compute_plan",
		Short: "Register a full training workflow",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
	cmd.Flags().StringVarP(&flags.filename, "filename", "f", "", "manifest file")
	cmd.MarkFlagRequired("filename")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the raw JSON response")
	return cmd
}
