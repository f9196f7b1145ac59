package commands

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/logger"
	"github.com/teranos/corpus/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, dbPath string, cfg *config.Config) {
	banner, _ := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("corpus", pterm.NewStyle(pterm.FgCyan)),
	).Srender()
	pterm.Println(banner)

	versionInfo := version.Get()
	panel := fmt.Sprintf("Version:   %s (commit %s)\nBuilt:     %s\nVerbosity: %s\nDatabase:  %s\nListen:    %s:%d",
		versionInfo.Version,
		versionInfo.Short(),
		versionInfo.BuildTime,
		logger.LevelName(verbosity),
		dbPath,
		cfg.Server.Host,
		cfg.Server.Port,
	)
	pterm.DefaultBox.WithTitle("corpus daemon").Println(panel)

	pterm.Info.Println("Press Ctrl+C to stop")
}
