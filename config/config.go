package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// ModuleFileName is the name of the TOML configuration file a module root
// is expected to carry.
const ModuleFileName = "chai-mod.toml"

// tomlConfig is the on-disk shape of a module's analyzer configuration.
type tomlConfig struct {
	Nossa bool `toml:"nossa"`
}

// AnalyzerConfig is the configuration recognized by this subsystem
// (spec.md §6): currently just the nossa address-taken-closure flag.
type AnalyzerConfig struct {
	// Nossa, when true, marks every mutable local referenced anywhere
	// inside its owning function's body as address-taken regardless of
	// whether it is captured by a nested function. When false, only
	// mutable locals used across a function-nesting boundary are marked.
	Nossa bool
}

// Default returns the configuration used when no module file is present.
func Default() *AnalyzerConfig {
	return &AnalyzerConfig{}
}

// Load reads and parses the module file at dir/ModuleFileName.
func Load(dir string) (*AnalyzerConfig, error) {
	f, err := os.Open(filepath.Join(dir, ModuleFileName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var tc tomlConfig
	if err := toml.Unmarshal(buf, &tc); err != nil {
		return nil, err
	}

	return &AnalyzerConfig{Nossa: tc.Nossa}, nil
}
