// Package hconfig loads and saves the TOML configuration
// used by the hashtree command.
package hconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/hdigest/hblake2b"
	"github.com/gordian-engine/hashtree/hdigest/hsha256"
)

// DefaultFile is the config file name used when none is given.
const DefaultFile = "hashtree.toml"

type Config struct {
	// Hash names the digest function: "sha256" or "blake2b".
	Hash string `toml:"hash"`

	// Where the build command stores the current tree.
	TreeFile string `toml:"tree_file"`

	// Where the consistency command stores the two compared trees.
	TreesFile string `toml:"trees_file"`

	// Whether written tree files are snappy compressed.
	// Reading detects compression regardless of this setting.
	Compress bool `toml:"compress"`

	Logger LoggerConfig `toml:"logger"`
}

type LoggerConfig struct {
	// One of debug, info, warn, or error.
	Level string `toml:"level"`

	// Either text or json.
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Hash:      hsha256.Name,
		TreeFile:  "merkle.tree",
		TreesFile: "merkle.trees",
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load decodes the TOML file at path over the defaults.
// Keys missing from the file keep their default values,
// and unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf(
			"config %s has unknown keys: %s", path, strings.Join(keys, ", "),
		)
	}

	return cfg, nil
}

// Save writes c to path as TOML, replacing any existing file.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var err error

	if _, herr := c.Hasher(); herr != nil {
		err = errors.Join(err, herr)
	}
	if c.TreeFile == "" {
		err = errors.Join(err, errors.New("tree_file must not be empty"))
	}
	if c.TreesFile == "" {
		err = errors.Join(err, errors.New("trees_file must not be empty"))
	}
	if c.TreeFile != "" && c.TreeFile == c.TreesFile {
		err = errors.Join(err, errors.New("tree_file and trees_file must differ"))
	}
	if _, lerr := parseLevel(c.Logger.Level); lerr != nil {
		err = errors.Join(err, lerr)
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		err = errors.Join(err, fmt.Errorf(
			"logger.format must be text or json, got %q", c.Logger.Format,
		))
	}

	return err
}

// Hasher returns the hasher named by c.Hash.
func (c Config) Hasher() (hdigest.Hasher, error) {
	return HasherByName(c.Hash)
}

// HasherByName resolves a hash name to its hasher.
func HasherByName(name string) (hdigest.Hasher, error) {
	switch name {
	case hsha256.Name:
		return hsha256.Hasher{}, nil
	case hblake2b.Name:
		return hblake2b.Hasher{}, nil
	default:
		return nil, fmt.Errorf(
			"unknown hash %q (want %s or %s)", name, hsha256.Name, hblake2b.Name,
		)
	}
}

// NewLogger builds the logger described by c, writing to w.
func (c LoggerConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch c.Format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logger.format must be text or json, got %q", c.Format)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logger.level: %w", err)
	}
	return lvl, nil
}
