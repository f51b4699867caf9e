package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/bundle"
)

// configCommand prints the effective parameters as TOML, ready to be edited
// and passed back with --config.
func (c *CLI) configCommand() *cobra.Command {
	var path string
	params := bundle.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the bundling parameters as TOML",
		Example: `  edgebundle config > params.toml
  edgebundle config --config params.toml --cycles 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			applyConfigFlags(cmd, &cfg, params)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return bundle.EncodeConfig(c.stdout, cfg)
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "TOML parameter file to start from")
	bindConfigFlags(cmd, &params)
	return cmd
}
