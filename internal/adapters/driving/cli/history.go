package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duoslide/duoslide-cli/internal/adapters/driven/storage/sqlite"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

var (
	historyLimit int
	historyJSON  bool
)

// historyStore can be injected for tests; when nil the SQLite store at
// the data directory is opened.
var historyStore driven.HistoryStore

// SetHistoryStore overrides the store used by the history commands.
func SetHistoryStore(s driven.HistoryStore) {
	historyStore = s
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect presentation history",
}

var historyDecksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List recently presented decks with their resume positions",
	RunE:  runHistoryDecks,
}

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List completed presentation runs, newest first",
	RunE:  runHistoryRuns,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historyDecksCmd)
	historyCmd.AddCommand(historyRunsCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistoryStore returns the injected store or opens the SQLite one.
func openHistoryStore() (driven.HistoryStore, func(), error) {
	if historyStore != nil {
		return historyStore, func() {}, nil
	}
	store, err := sqlite.NewStore(dataDirFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	return store, func() { store.Close() }, nil
}

func runHistoryDecks(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer closeStore()

	decks, err := store.RecentDecks(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing decks: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(decks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding decks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(decks) == 0 {
		cmd.Println("No decks presented yet.")
		return nil
	}

	cmd.Println("Recent decks:")
	for _, d := range decks {
		cmd.Printf("  %s  (slide %d, %s)\n",
			d.Path, d.LastSlide+1, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistoryRuns(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := store.RecentRuns(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No completed runs yet.")
		return nil
	}

	cmd.Println("Recent runs:")
	for _, r := range runs {
		cmd.Printf("  %s  %s  (%s, %d slides)\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Path,
			r.EndedAt.Sub(r.StartedAt).Round(time.Second),
			r.SlidesVisited)
	}
	return nil
}
