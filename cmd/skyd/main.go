// Package main is skyd's entrypoint. It wires config → logging →
// GlobalNS → executor the way cmd/smf/main.go wires its own
// parser → diff/migration → apply pipeline behind a Cobra root
// command with one subcommand per distinct operation.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skytable/internal/config"
	"skytable/internal/core"
	"skytable/internal/exec"
	"skytable/internal/journal"
	"skytable/internal/logging"
	"skytable/internal/taskpool"
)

type serveFlags struct {
	configPath string
	debug      bool
	logFile    string
}

type inspectSnapshotFlags struct {
	configPath string
}

type replayJournalFlags struct {
	configPath string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "skyd",
		Short: "skytable-go storage/execution engine",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(inspectSnapshotCmd())
	rootCmd.AddCommand(replayJournalCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load a snapshot, replay the journal, and block ready for dispatch",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "skyd.toml", "Path to the server config file")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug-level logging")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Rotate JSON logs through this file in addition to stderr")
	return cmd
}

func runServe(flags *serveFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{FilePath: flags.logFile, Debug: flags.debug})
	if err != nil {
		return fmt.Errorf("skyd: build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	global := core.NewGlobalNS()
	snapshotPath := filepath.Join(cfg.DataDir, cfg.SnapshotFile)
	journalPath := filepath.Join(cfg.DataDir, cfg.JournalFile)

	if err := loadSnapshotIfPresent(global, snapshotPath); err != nil {
		return fmt.Errorf("skyd: load snapshot: %w", err)
	}
	if err := replayJournalIfPresent(global, journalPath); err != nil {
		return fmt.Errorf("skyd: replay journal: %w", err)
	}

	jw, err := journal.Create(journalPath)
	if err != nil {
		return fmt.Errorf("skyd: open journal for append: %w", err)
	}
	defer func() { _ = jw.Close() }()

	dispatcher := &exec.Dispatcher{
		Global: global,
		Pool:   taskpool.NewFixed(cfg.WorkerPoolSize),
		Log:    log,
		OnMutation: func(op core.Operation) {
			log.Info("schema mutation",
				zap.String("space", op.SpaceName),
				zap.String("model", op.ModelName),
				zap.String("op", op.Kind.String()),
			)
			if err := jw.Append(op); err != nil {
				log.Error("journal append failed", zap.Error(err))
			}
		},
	}

	log.Info("skyd ready",
		zap.String("data_dir", cfg.DataDir),
		zap.String("listen_addr", cfg.ListenAddr),
		zap.Int("spaces_loaded", len(dispatcher.Global.Spaces())),
	)

	// The TCP listener that would call dispatcher.Dispatch per
	// connection is out of scope (spec.md §1); serve's job ends at
	// having a ready-to-use Dispatcher, so it blocks here instead of
	// exiting, the way a real server would sit in its accept loop
	// for a collaborator's listener to hand it connections.
	select {}
}

func inspectSnapshotCmd() *cobra.Command {
	flags := &inspectSnapshotFlags{}
	cmd := &cobra.Command{
		Use:   "inspect-snapshot",
		Short: "Print every space and model recorded in the configured snapshot file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInspectSnapshot(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "skyd.toml", "Path to the server config file")
	return cmd
}

func runInspectSnapshot(flags *inspectSnapshotFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.DataDir, cfg.SnapshotFile)
	spaces, err := journal.ReadSnapshot(path)
	if err != nil {
		return fmt.Errorf("skyd: read snapshot %q: %w", path, err)
	}
	for _, sp := range spaces {
		fmt.Printf("space %s (%d models)\n", sp.Name, len(sp.Models))
		for _, m := range sp.Models {
			fmt.Printf("  model %s.%s primary=%s fields=%d\n", m.SpaceName, m.ModelName, m.PrimaryField, len(m.Fields))
		}
	}
	return nil
}

func replayJournalCmd() *cobra.Command {
	flags := &replayJournalFlags{}
	cmd := &cobra.Command{
		Use:   "replay-journal",
		Short: "Print every record in the configured journal file without applying it",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runReplayJournal(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "skyd.toml", "Path to the server config file")
	return cmd
}

func runReplayJournal(flags *replayJournalFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.DataDir, cfg.JournalFile)
	records, err := journal.ReadAll(path)
	if err != nil {
		return fmt.Errorf("skyd: read journal %q: %w", path, err)
	}
	sessions := journal.DistinctSessions(records)
	if len(sessions) > 1 {
		fmt.Printf("warning: journal spans %d distinct sessions (concatenated from separate runs)\n", len(sessions))
	}
	for i, rec := range records {
		fmt.Printf("%d: session=%s kind=%s space=%s\n", i, rec.SessionID, rec.Kind, rec.SpaceName)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("skyd: load config %q: %w", path, err)
	}
	return cfg, nil
}

func loadSnapshotIfPresent(global *core.GlobalNS, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	spaces, err := journal.ReadSnapshot(path)
	if err != nil {
		return err
	}
	return exec.ApplySnapshot(global, spaces)
}

func replayJournalIfPresent(global *core.GlobalNS, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	records, err := journal.ReadAll(path)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := exec.ApplyRecord(global, rec); err != nil {
			return err
		}
	}
	return nil
}
