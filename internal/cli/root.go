// Package cli implements the substra command tree.
package cli

import (
	"flag"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/owkin/substra/internal/config"
)

var Version = "development"

func Command() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:     "substra",
		Short:   "Substra CLI",
		Long:    "Interact with a Substra backend node: register federated learning assets, launch training tasks and inspect results.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// klog owns the -v flag machinery; feed it ours.
			fs := flag.NewFlagSet("klog", flag.ContinueOnError)
			klog.InitFlags(fs)
			fs.Set("v", strconv.Itoa(verbosity))
			fs.Set("logtostderr", "true")
		},
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "path to the config file")
	cmd.PersistentFlags().String("profile", config.DefaultProfile, "profile to use")
	cmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity level")

	cmd.AddCommand(configCommand())
	cmd.AddCommand(loginCommand())
	cmd.AddCommand(addCommand())
	cmd.AddCommand(listCommand())
	cmd.AddCommand(getCommand())
	cmd.AddCommand(describeCommand())
	cmd.AddCommand(downloadCommand())
	cmd.AddCommand(leaderboardCommand())
	cmd.AddCommand(updateCommand())

	return cmd
}
