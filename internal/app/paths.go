package app

import (
	"os"
	"path/filepath"

	"github.com/corey/chatstat/internal/config"
)

// Paths holds all resolved filesystem paths under the data directory.
// All fields are pre-computed strings.
type Paths struct {
	Root       string // <data_dir>/
	DB         string // <data_dir>/chatstat.db
	OutputDir  string // <data_dir>/output/ unless paths.output_dir is set
	Transcript string // <data_dir>/channel.log unless transcript.path is set
	Metrics    string // <data_dir>/chatstat.prom
	Lookup     string // <data_dir>/lookup.yaml unless paths.lookup is set
}

// NewPaths resolves every path from the configuration.
func NewPaths(cfg *config.Config) *Paths {
	root := cfg.Paths.DataDir
	p := &Paths{
		Root:       root,
		DB:         filepath.Join(root, "chatstat.db"),
		OutputDir:  filepath.Join(root, "output"),
		Transcript: filepath.Join(root, "channel.log"),
		Metrics:    filepath.Join(root, "chatstat.prom"),
		Lookup:     filepath.Join(root, "lookup.yaml"),
	}
	if cfg.Paths.OutputDir != "" {
		p.OutputDir = cfg.Paths.OutputDir
	}
	if cfg.Transcript.Path != "" {
		p.Transcript = cfg.Transcript.Path
	}
	if cfg.Paths.Lookup != "" {
		p.Lookup = cfg.Paths.Lookup
	}
	return p
}

// EnsureDirs creates the data and output directories. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.OutputDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}
