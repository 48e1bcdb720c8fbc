// Package config loads the optional weft.hcl tool configuration found at
// the scan root. A missing file means defaults; a malformed file is fatal
// before resolution starts.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the root of weft.hcl.
//
//	report_db = "weft-runs.db"
//	provenance {
//	  scheme = "logseq"
//	}
type Config struct {
	// ReportDB, when set, names a SQLite database that receives one
	// summary row per run. Relative paths resolve against the scan root.
	ReportDB   string      `hcl:"report_db,optional"`
	Provenance *Provenance `hcl:"provenance,block"`
}

// Provenance controls the metadata header prepended to copied pages.
// Injection is on by default; set disabled = true to copy raw bytes.
type Provenance struct {
	Disabled bool   `hcl:"disabled,optional"`
	Scheme   string `hcl:"scheme,optional"`
}

// Default returns the configuration used when no weft.hcl is present.
func Default() *Config {
	return &Config{Provenance: &Provenance{}}
}

// Load reads the configuration at path. A missing file is not an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Provenance == nil {
		cfg.Provenance = &Provenance{}
	}
	return &cfg, nil
}
