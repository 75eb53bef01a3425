package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/duoslide/duoslide-cli/internal/adapters/driven/config/file"
)

// configStore can be injected for tests; when nil the TOML store in
// the config directory is opened.
var configStore *configfile.Store

// SetConfigStore overrides the store used by the config commands.
func SetConfigStore(s *configfile.Store) {
	configStore = s
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage presenter configuration",
	Long: `View and change presenter configuration stored in config.toml.

Settable keys:
  ` + strings.Join(configfile.Keys(), "\n  "),
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// openConfigStore returns the injected store or opens the one in the
// config directory.
func openConfigStore() (*configfile.Store, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := configfile.NewStore(configDir())
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	engine := store.EngineConfig()

	cmd.Println("Current Configuration")
	cmd.Println()
	cmd.Println("[Cache]")
	cmd.Printf("  Budget: %d MiB\n", engine.CacheBudgetBytes>>20)
	cmd.Printf("  Pin radius: %d\n", engine.PinRadius)
	cmd.Println()
	cmd.Println("[Session]")
	cmd.Printf("  Saves per second: %g (burst %d)\n", engine.SavesPerSecond, engine.SaveBurst)
	cmd.Println()
	cmd.Println("[Display]")
	if screens := store.Screens(); screens != "" {
		cmd.Printf("  Screens: %s\n", screens)
	} else {
		cmd.Printf("  Screens: (default %s)\n", defaultScreens)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := store.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}
