package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/errors"
)

// ConfigCmd groups configuration inspection subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect corpus configuration",
	Long: `Show the effective configuration after all layers are merged, or the
file locations each layer is read from.

Examples:
  corpus config show
  corpus config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		return displayJSON(cfg.Map())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.ConfigFilePaths()
		if len(paths) == 0 {
			pterm.Info.Println("No config files found; built-in defaults are in effect")
			pterm.Printf("User config would be read from: %s\n", config.UserConfigPath())
			return nil
		}

		pterm.Println("Config files in precedence order (later overrides earlier):")
		for _, p := range paths {
			pterm.Printf("  %s\n", p)
		}
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configPathCmd)
}
