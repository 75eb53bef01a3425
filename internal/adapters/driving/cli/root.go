// Package cli implements the duoslide command-line interface.
// It is a driving adapter: commands wire the engine and its driven
// adapters together and hand control to the TUI cockpit.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/duoslide/duoslide-cli/internal/logger"
)

// version is the duoslide release version.
var version = "0.1.0"

var (
	verboseFlag   bool
	configDirFlag string
	dataDirFlag   string
	screensFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "duoslide",
	Short: "Dual-view slide presenter for the terminal",
	Long: `Duoslide presents a slide deck with a presenter cockpit and a
synchronized audience output: the cockpit shows the live slide, an
independent preview cursor, speaker notes and a timer, while the
audience side only ever sees the current slide (or black).

A deck is a directory of page images, one image per page, ordered by
file name. Speaker notes live in a sidecar text file next to the deck
("<deck>_notes.txt"), with slides separated by "---" lines.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"config directory (default ~/.duoslide)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"data directory for the history database (default ~/.duoslide/data)")
	rootCmd.PersistentFlags().StringVar(&screensFlag, "screens", "",
		"screen layout as WIDTHxHEIGHT+X+Y[:primary], comma separated")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configDir resolves the configuration directory.
func configDir() string {
	if configDirFlag != "" {
		return configDirFlag
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duoslide"
	}
	return filepath.Join(home, ".duoslide")
}
