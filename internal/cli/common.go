package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/owkin/substra/internal/config"
	"github.com/owkin/substra/internal/sdk"
)

// Stdout and Stderr are swapped out in tests.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func configPath(cmd *cobra.Command) string {
	return cmd.Flag("config").Value.String()
}

func profileName(cmd *cobra.Command) string {
	f := cmd.Flag("profile")
	if !f.Changed {
		if env := os.Getenv(config.ProfileEnvVar); env != "" {
			return env
		}
	}
	return f.Value.String()
}

// loadProfile resolves the active profile from the config file and
// environment.
func loadProfile(cmd *cobra.Command) (config.Profile, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return config.Profile{}, err
	}
	return cfg.Profile(cmd.Context(), profileName(cmd))
}

// newClient builds a backend client for the active profile. A stored token
// past its expiry gets a warning instead of a bare 401 later on.
func newClient(cmd *cobra.Command) (*sdk.Client, error) {
	profile, err := loadProfile(cmd)
	if err != nil {
		return nil, err
	}
	if profile.Token != "" {
		if expiry, err := sdk.TokenExpiry(profile.Token); err == nil && time.Now().After(expiry) {
			fmt.Fprintf(Stderr, "Warning: API token expired %s, run `substra login` to refresh it\n",
				expiry.Format(time.RFC3339))
		}
	}
	client, err := sdk.New(sdk.Options{
		URL:      profile.URL,
		Version:  profile.Version,
		Username: profile.Username,
		Password: profile.Password,
		Token:    profile.Token,
		Insecure: profile.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return client, nil
}

// loadManifest decodes a YAML or JSON asset manifest into spec, resolves
// the file paths it references relative to the manifest location, and
// validates the result.
func loadManifest(path string, spec interface{}, pathFields ...*string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, spec)
	default:
		err = yaml.Unmarshal(data, spec)
	}
	if err != nil {
		return fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, field := range pathFields {
		if *field != "" && !filepath.IsAbs(*field) {
			*field = filepath.Join(dir, *field)
		}
	}

	if err := validator.New().Struct(spec); err != nil {
		return fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return nil
}

// parseKindArg resolves the ASSET positional argument.
func parseKindArg(arg string) (sdk.Kind, error) {
	return sdk.ParseKind(arg)
}

// exitOnError wraps a command run function in the standard error handling:
// print to stderr and exit non-zero.
func exitOnError(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := run(cmd, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
