package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func describeCommand() *cobra.Command {
	var flags struct {
		raw bool
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

		description, err := client.Describe(cmd.Context(), kind, args[1])
		if err != nil {
			return fmt.Errorf("describing %s: %w", kind.PrettyName(), err)
		}

		if !flags.raw {
			if rendered, err := renderMarkdown(description); err == nil {
				fmt.Fprint(Stdout, rendered)
				return nil
			} else {
				klog.V(1).Infof("markdown rendering failed, printing raw text: %v", err)
			}
		}
		fmt.Fprintln(Stdout, description)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "describe ASSET KEY",
		Short: "Display the markdown description of an asset",
		Args:  cobra.ExactArgs(2),
		Run:   exitOnError(run),
	}
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the description without rendering")
	return cmd
}

func renderMarkdown(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
