package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/hconfig"
	"github.com/spf13/cobra"
)

const (
	exitPositive = 0
	exitNegative = 1
	exitError    = 2
)

// errNegative is returned by commands that already printed "no".
var errNegative = errors.New("negative result")

// app holds state shared by every subcommand,
// populated by the root command's pre-run hook.
type app struct {
	stdout, stderr io.Writer

	configPath string
	hash       string
	logLevel   string
	treeFile   string
	treesFile  string
	compress   bool

	cfg hconfig.Config
	log *slog.Logger
	h   hdigest.Hasher
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitPositive
	case errors.Is(err, errNegative):
		return exitNegative
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashtree",
		Short: "Build Merkle trees and prove inclusion and consistency.",
		Long: `Build Merkle trees over comma-separated lists of strings,
then produce and verify inclusion and consistency proofs.

This will look for ` + hconfig.DefaultFile + ` in the current directory
unless another config file is specified.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", hconfig.DefaultFile, "Path to the TOML config file")
	pf.StringVar(&a.hash, "hash", "", "Override the configured hash (sha256 or blake2b)")
	pf.StringVar(&a.logLevel, "log-level", "", "Override the configured log level")
	pf.StringVar(&a.treeFile, "tree-file", "", "Override the configured tree file")
	pf.StringVar(&a.treesFile, "trees-file", "", "Override the configured trees file")
	pf.BoolVar(&a.compress, "compress", false, "Snappy-compress written tree files")

	cmd.AddCommand(
		a.initCommand(),
		a.buildCommand(),
		a.inclusionCommand(),
		a.consistencyCommand(),
		a.verifyInclusionCommand(),
		a.verifyConsistencyCommand(),
		a.versionCommand(),
	)

	return cmd
}

// setup loads the config, applies flag overrides, and builds the logger and hasher.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := hconfig.Load(a.configPath)
	if err != nil {
		// A missing default config just means defaults;
		// a missing explicit one is an error.
		if cmd.Flags().Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg = hconfig.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("hash") {
		cfg.Hash = a.hash
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = a.logLevel
	}
	if flags.Changed("tree-file") {
		cfg.TreeFile = a.treeFile
	}
	if flags.Changed("trees-file") {
		cfg.TreesFile = a.treesFile
	}
	if flags.Changed("compress") {
		cfg.Compress = a.compress
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	if a.h, err = cfg.Hasher(); err != nil {
		return err
	}
	if a.log, err = cfg.Logger.NewLogger(a.stderr); err != nil {
		return err
	}

	a.log.Debug(
		"Loaded configuration",
		"hash", cfg.Hash,
		"tree_file", cfg.TreeFile,
		"trees_file", cfg.TreesFile,
	)
	return nil
}
