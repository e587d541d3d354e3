package main

import (
	"fmt"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hcodec"
	"github.com/spf13/cobra"
)

func (a *app) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build LIST",
		Short: "Build a Merkle tree and save it to the tree file.",
		Long: `Build a Merkle tree over LIST and save it to the tree file.

LIST is a comma-separated list of strings, optionally in brackets,
such as "[alice, bob, carol, david]".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := hashtree.Build(a.h, hcodec.ParseList(args[0]))
			if err != nil {
				return err
			}

			if err := hcodec.WriteFile(a.cfg.TreeFile, hcodec.NewTreeRecord(t), a.cfg.Compress); err != nil {
				return err
			}

			a.log.Info(
				"Built tree",
				"size", t.Size(),
				"depth", t.Depth(),
				"root", t.Root(),
				"file", a.cfg.TreeFile,
			)
			fmt.Fprintf(a.stdout, "Merkle tree built successfully. Output saved to %s\n", a.cfg.TreeFile)
			fmt.Fprintln(a.stdout, "root", t.Root())
			return nil
		},
	}
}

// loadTree reads the tree file with the configured hasher.
func (a *app) loadTree() (*hashtree.Tree, error) {
	var rec hcodec.TreeRecord
	if err := hcodec.ReadFile(a.cfg.TreeFile, &rec); err != nil {
		return nil, err
	}

	t, err := rec.Tree(a.h)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", a.cfg.TreeFile, err)
	}

	a.log.Debug("Loaded tree", "size", t.Size(), "root", t.Root())
	return t, nil
}
