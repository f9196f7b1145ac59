package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/corpus/version"
)

// VersionCmd shows build information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show corpus version information",
	Long:  `Display version, build time, commit hash, and platform information for the corpus binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		jsonOutput, _ := cmd.Flags().GetBool("json-output")

		info := version.Get()

		if short {
			fmt.Println(info.Short())
			return nil
		}
		if jsonOutput {
			return displayJSON(info)
		}

		fmt.Println(info.String())
		fmt.Printf("Platform: %s\n", info.Platform)
		fmt.Printf("Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().Bool("short", false, "Print only the short commit hash")
	VersionCmd.Flags().Bool("json-output", false, "Output version info as JSON")
}
