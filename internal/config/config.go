// Package config loads skyd's server configuration from a TOML file,
// the same file format (and library) the teacher's schema parser uses
// for its own input — repointed here at server configuration instead
// of a database schema.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlConfig is the raw [server] section as written in the file; its
// fields are copied, not embedded, into Config so the public type
// stays independent of the TOML tag layout.
type tomlConfig struct {
	Server tomlServer `toml:"server"`
}

type tomlServer struct {
	DataDir        string `toml:"data_dir"`
	ListenAddr     string `toml:"listen_addr"`
	WorkerPoolSize int    `toml:"worker_pool_size"`
	SnapshotFile   string `toml:"snapshot_file"`
	JournalFile    string `toml:"journal_file"`
}

// Config is skyd's resolved server configuration.
type Config struct {
	// DataDir is the directory snapshot and journal files are
	// resolved relative to.
	DataDir string
	// ListenAddr is accepted and validated here so a collaborator's
	// connection listener (out of scope per spec.md §1) has a config
	// surface ready to read; internal/exec never dials or binds
	// anything itself.
	ListenAddr string
	// WorkerPoolSize sizes internal/taskpool.Fixed, the blocking
	// worker pool schema-mutating statements run on (spec.md §5).
	WorkerPoolSize int
	// SnapshotFile and JournalFile name the two on-disk files
	// described in spec.md §6, relative to DataDir.
	SnapshotFile string
	JournalFile  string
}

// defaults mirrors a fresh install: a local data directory, a modest
// fixed worker pool, and the file names spec.md §6 uses in its own
// examples.
func defaults() Config {
	return Config{
		DataDir:        ".",
		ListenAddr:     "127.0.0.1:2003",
		WorkerPoolSize: 8,
		SnapshotFile:   "db.snapshot",
		JournalFile:    "db.journal",
	}
}

// ParseFile opens path and parses it as a TOML server config,
// matching internal/parser/toml/parser.go's ParseFile → struct →
// Validate pipeline.
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads TOML content from r and returns the resolved Config,
// defaults filled in for anything the file omits.
func Parse(r io.Reader) (*Config, error) {
	var tc tomlConfig
	if _, err := toml.NewDecoder(r).Decode(&tc); err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}

	cfg := defaults()
	if tc.Server.DataDir != "" {
		cfg.DataDir = tc.Server.DataDir
	}
	if tc.Server.ListenAddr != "" {
		cfg.ListenAddr = tc.Server.ListenAddr
	}
	if tc.Server.WorkerPoolSize != 0 {
		cfg.WorkerPoolSize = tc.Server.WorkerPoolSize
	}
	if tc.Server.SnapshotFile != "" {
		cfg.SnapshotFile = tc.Server.SnapshotFile
	}
	if tc.Server.JournalFile != "" {
		cfg.JournalFile = tc.Server.JournalFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resolved Config for values the rest of skyd
// cannot safely run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("config: worker_pool_size must be positive, got %d", c.WorkerPoolSize)
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("config: snapshot_file must not be empty")
	}
	if c.JournalFile == "" {
		return fmt.Errorf("config: journal_file must not be empty")
	}
	return nil
}
