package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duoslide/duoslide-cli/internal/adapters/driven/display/static"
	"github.com/duoslide/duoslide-cli/internal/adapters/driven/session/file"
	"github.com/duoslide/duoslide-cli/internal/adapters/driven/source/imagedir"
	"github.com/duoslide/duoslide-cli/internal/adapters/driven/storage/sqlite"
	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
	"github.com/duoslide/duoslide-cli/internal/core/services"
	"github.com/duoslide/duoslide-cli/internal/logger"
)

// defaultScreens is assumed when --screens is not given: a single
// primary display that doubles as the audience output.
const defaultScreens = "1920x1080+0+0:primary"

// presenter can be injected for tests; when nil, runPresent builds the
// full default stack.
var presenter *services.Engine

// SetPresenter overrides the engine used by the present command.
func SetPresenter(p *services.Engine) {
	presenter = p
}

var presentCmd = &cobra.Command{
	Use:   "present [deck]",
	Short: "Open a deck and start the presenter cockpit",
	Long: `Opens a deck (a directory of page images) and starts the presenter
cockpit. Without an argument the previous session's deck is restored
at the slide it was left on.

Controls:
  →/space  Next slide        ↓/↑  Move preview cursor
  ←/p      Previous slide    b    Blank audience
  F5       Present from start
  s        Present from here
  esc      Stop presenting   q    Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresent,
}

func init() {
	rootCmd.AddCommand(presentCmd)
}

func runPresent(cmd *cobra.Command, args []string) error {
	engine := presenter
	if engine == nil {
		built, cleanup, err := buildEngine()
		if err != nil {
			return err
		}
		defer cleanup()
		engine = built
	}

	ctx := cmd.Context()
	if len(args) == 1 {
		if err := engine.OpenDocument(ctx, args[0]); err != nil {
			return err
		}
	} else {
		engine.Restore(ctx)
		if engine.Document() == nil {
			return errors.New("no deck given and no previous session to restore")
		}
	}

	// Live-reload the notes sidecar while the cockpit runs.
	if doc := engine.Document(); doc != nil {
		watcher, err := services.WatchNotes(doc.NotesPath(), engine.ReloadNotes)
		if err != nil {
			logger.Warn("notes live-reload unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	app, err := tui.NewApp(tui.NewPorts(engine))
	if err != nil {
		return fmt.Errorf("creating cockpit: %w", err)
	}
	return app.WithContext(ctx).Run()
}

// buildEngine wires the default production stack: image-directory
// source, TOML session and config files, SQLite history and the
// configured screen layout. The config and history stores are
// optional; failures there degrade to defaults and session-only
// resume.
func buildEngine() (*services.Engine, func(), error) {
	engineCfg := domain.DefaultEngineConfig()
	configuredScreens := ""
	if store, err := openConfigStore(); err != nil {
		logger.Warn("config unavailable, using defaults: %v", err)
	} else {
		engineCfg = store.EngineConfig()
		configuredScreens = store.Screens()
	}

	spec := screensFlag
	if spec == "" {
		spec = configuredScreens
	}
	if spec == "" {
		spec = defaultScreens
	}
	displays, err := static.Parse(spec)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing screen layout %q: %w", spec, err)
	}

	source := imagedir.New()
	sessions := file.New(configDir())

	var history driven.HistoryStore
	var closeHistory func()
	if store, err := sqlite.NewStore(dataDirFlag); err != nil {
		logger.Warn("history database unavailable: %v", err)
	} else {
		history = store
		closeHistory = func() { store.Close() }
	}

	engine := services.NewEngine(engineCfg, source, sessions, history, displays)

	cleanup := func() {
		source.Close()
		if closeHistory != nil {
			closeHistory()
		}
	}
	return engine, cleanup, nil
}
