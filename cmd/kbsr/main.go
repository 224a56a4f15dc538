// Command kbsr is an interactive terminal trainer that teaches keyboard
// shortcuts via spaced repetition.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jwulff/kbsr/internal/app"
	"github.com/jwulff/kbsr/internal/config"
	"github.com/jwulff/kbsr/internal/deck"
	"github.com/jwulff/kbsr/internal/gitdeck"
	"github.com/jwulff/kbsr/internal/scheduler"
	"github.com/jwulff/kbsr/internal/store"
	"github.com/jwulff/kbsr/internal/termmode"
)

var configPath string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kbsr",
		Short: "Train keyboard shortcuts with spaced repetition",
		RunE:  runTUI,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: XDG config dir)")
	root.AddCommand(newSyncCmd(), newStatsCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return config.Load(path, cmd.Flags())
}

func openStore(cfg *config.Config, log *slog.Logger) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := store.CreateDailyBackup(cfg.DBPath, time.Now()); err != nil {
		log.Warn("daily backup failed", "error", err)
	}
	return store.Open(cfg.DBPath, log)
}

func runTUI(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := syncDecksFromDir(cfg, log); err != nil {
		log.Warn("deck sync failed", "error", err)
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	decks, err := loadDecks(cfg.DecksDir)
	if err != nil {
		return err
	}
	if _, err := st.SyncDecks(decks); err != nil {
		return fmt.Errorf("sync decks: %w", err)
	}

	sched := scheduler.New(scheduler.Config{
		DesiredRetention: cfg.DesiredRetention,
		IntervalModifier: cfg.IntervalModifier,
		MaxIntervalDays:  cfg.MaxIntervalDays,
	})

	keys := termmode.New(os.Stdout)
	if err := keys.Push(termmode.RawMode); err != nil {
		log.Warn("terminal does not support keyboard enhancement flags", "error", err)
	}
	defer func() {
		if err := keys.PopAll(); err != nil {
			log.Warn("failed to restore terminal keyboard flags", "error", err)
		}
	}()

	model := app.New(cfg, st, sched, nil, log)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync deck TSV files (and an optional git remote) into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stdout, nil))
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := syncDecksFromDir(cfg, log); err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath, log)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			decks, err := loadDecks(cfg.DecksDir)
			if err != nil {
				return err
			}
			report, err := st.SyncDecks(decks)
			if err != nil {
				return fmt.Errorf("sync decks: %w", err)
			}
			fmt.Printf("decks upserted: %d, cards inserted: %d, cards reset: %d, cards deleted: %d, decks deleted: %d\n",
				report.DecksUpserted, report.CardsInserted, report.CardsReset, report.CardsDeleted, report.DecksDeleted)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show due/total card counts per deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stdout, nil))
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := store.Open(cfg.DBPath, log)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			stats, err := st.GetDeckStats(time.Now())
			if err != nil {
				return fmt.Errorf("get deck stats: %w", err)
			}
			for _, s := range stats {
				fmt.Printf("%-20s due %d/%d\n", s.Name, s.Due, s.Total)
			}
			return nil
		},
	}
}

// syncDecksFromDir pulls the git-hosted deck remote (if configured) into
// the decks directory before any TSV parsing happens.
func syncDecksFromDir(cfg *config.Config, log *slog.Logger) error {
	if cfg.DecksGitRemote == "" {
		return nil
	}
	return gitdeck.Sync(cfg.DecksGitRemote, cfg.DecksDir, log)
}

func loadDecks(dir string) ([]deck.Deck, error) {
	paths, err := deck.ListDecks(dir)
	if err != nil {
		return nil, fmt.Errorf("list decks in %s: %w", dir, err)
	}
	decks := make([]deck.Deck, 0, len(paths))
	for _, path := range paths {
		d, parseErrs := deck.LoadFile(path)
		for _, pe := range parseErrs {
			fmt.Fprintln(os.Stderr, "warning:", pe.Error())
		}
		decks = append(decks, d)
	}
	return decks, nil
}
