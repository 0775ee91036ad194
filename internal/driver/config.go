package driver

import (
	"path/filepath"

	"bfi/internal/config"
)

// ResolveConfig loads the machine configuration for the program at path.
// An explicit configPath wins over discovery from the program's directory;
// overrides are applied last.
func ResolveConfig(path, configPath string, overrides config.Overrides) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Discover(filepath.Dir(path))
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Apply(overrides)
}
