// Package config resolves machine settings from defaults, bfi.toml and
// command-line overrides, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"bfi/internal/vm"
)

// FileName is the configuration file searched for next to programs.
const FileName = "bfi.toml"

// MaxTapeSize bounds tape_size so a typo cannot allocate gigabytes up front.
const MaxTapeSize = 1 << 28

type Machine struct {
	TapeSize int    `toml:"tape_size"`
	Pointer  string `toml:"pointer"`
	EOF      string `toml:"eof"`
}

type Config struct {
	Machine Machine `toml:"machine"`
	// Path is the file the config came from; empty for pure defaults.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Machine: Machine{
			TapeSize: vm.DefaultTapeSize,
			Pointer:  vm.PointerFail.String(),
			EOF:      vm.EOFFail.String(),
		},
	}
}

// Find walks from startDir up to the filesystem root looking for bfi.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile decodes path on top of the defaults. Keys absent from the file
// keep their default value; unknown keys are an error.
func LoadFile(path string) (Config, error) {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("machine", "tape_size") {
		cfg.Machine.TapeSize = raw.Machine.TapeSize
	}
	if meta.IsDefined("machine", "pointer") {
		cfg.Machine.Pointer = raw.Machine.Pointer
	}
	if meta.IsDefined("machine", "eof") {
		cfg.Machine.EOF = raw.Machine.EOF
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest bfi.toml above startDir, or the defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// Validate checks value ranges and policy names.
func (c Config) Validate() error {
	if c.Machine.TapeSize <= 0 || c.Machine.TapeSize > MaxTapeSize {
		return fmt.Errorf("[machine].tape_size must be in 1..%d, got %d", MaxTapeSize, c.Machine.TapeSize)
	}
	if _, err := vm.ParsePointerPolicy(c.Machine.Pointer); err != nil {
		return fmt.Errorf("[machine].pointer: %w", err)
	}
	if _, err := vm.ParseEOFPolicy(c.Machine.EOF); err != nil {
		return fmt.Errorf("[machine].eof: %w", err)
	}
	return nil
}

// Overrides carries values set explicitly on the command line; nil fields
// were not given.
type Overrides struct {
	TapeSize *int
	Pointer  *string
	EOF      *string
}

// Apply layers explicitly set overrides on top of c and revalidates.
func (c Config) Apply(o Overrides) (Config, error) {
	if o.TapeSize != nil {
		c.Machine.TapeSize = *o.TapeSize
	}
	if o.Pointer != nil {
		c.Machine.Pointer = *o.Pointer
	}
	if o.EOF != nil {
		c.Machine.EOF = *o.EOF
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// VMOptions converts the machine section to vm.Options.
func (c Config) VMOptions() (vm.Options, error) {
	ptr, err := vm.ParsePointerPolicy(c.Machine.Pointer)
	if err != nil {
		return vm.Options{}, err
	}
	eof, err := vm.ParseEOFPolicy(c.Machine.EOF)
	if err != nil {
		return vm.Options{}, err
	}
	return vm.Options{
		TapeSize: c.Machine.TapeSize,
		Pointer:  ptr,
		EOF:      eof,
	}, nil
}
