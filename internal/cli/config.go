package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/owkin/substra/internal/config"
)

func configCommand() *cobra.Command {
	var flags struct {
		username string
		password string
		version  string
		insecure bool
	}

	run := func(cmd *cobra.Command, args []string) error {
		path := configPath(cmd)
		profile := profileName(cmd)

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		password := flags.password
		if flags.username != "" && password == "" {
			password, err = promptPassword()
			if err != nil {
				return err
			}
		}

		cfg.SetProfile(profile, config.Profile{
			URL:      args[0],
			Version:  flags.version,
			Username: flags.username,
			Password: password,
			Insecure: flags.insecure,
		})
		if err := cfg.Save(path); err != nil {
			return err
		}

		fmt.Fprintf(Stdout, "Profile %q saved to %s\n", profile, path)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "config URL",
		Short: "Configure a backend profile",
		Example: `  # Configure the default profile.
  substra config http://substra-backend.node-1.com

  # Configure a named profile with credentials.
  substra config https://substra-backend.owkin.com --profile owkin --username node-1`,
		Args: cobra.ExactArgs(1),
		Run:  exitOnError(run),
	}

	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "backend username")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "backend password (prompted when a username is set and this flag is omitted)")
	cmd.Flags().StringVarP(&flags.version, "version", "", "", "backend API version")
	cmd.Flags().BoolVarP(&flags.insecure, "insecure", "k", false, "skip TLS certificate verification")

	return cmd
}

func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("stdin is not a terminal, pass --password instead")
	}
	fmt.Fprint(os.Stderr, "password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
