package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/owkin/substra/internal/config"
	"github.com/owkin/substra/internal/sdk"
)

func loginCommand() *cobra.Command {
	run := func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		token, err := client.Login(cmd.Context())
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		if expiry, err := sdk.TokenExpiry(token); err != nil {
			klog.V(1).Infof("token expiry not readable: %v", err)
		} else {
			fmt.Fprintf(Stdout, "Token expires %s\n", expiry.Format(time.RFC3339))
		}

		// Persist the token so subsequent commands skip basic auth.
		path := configPath(cmd)
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		name := profileName(cmd)
		profile, ok := cfg.Profiles[name]
		if !ok {
			return fmt.Errorf("profile %q not found in %s", name, path)
		}
		profile.Token = token
		cfg.SetProfile(name, profile)
		if err := cfg.Save(path); err != nil {
			return err
		}

		fmt.Fprintf(Stdout, "Logged in as %s\n", profile.Username)
		return nil
	}

	return &cobra.Command{
		Use:   "login",
		Short: "Obtain an API token with the profile credentials",
		Args:  cobra.NoArgs,
		Run:   exitOnError(run),
	}
}
