package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hcodec"
	"github.com/spf13/cobra"
)

func (a *app) inclusionCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "inclusion TARGET",
		Short: "Prove that TARGET is a leaf of the saved tree.",
		Long: `Prove that TARGET is a leaf of the tree in the tree file.

Prints "yes" followed by the proof, or "no" if TARGET is not a leaf.
If TARGET occurs more than once, the proof is for its first occurrence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTree()
			if err != nil {
				return err
			}

			p, err := hashtree.ProveInclusion(t, []byte(args[0]))
			if err != nil {
				if errors.As(err, new(hashtree.LeafNotFoundError)) {
					fmt.Fprintln(a.stdout, "no")
					return errNegative
				}
				return err
			}

			rec := hcodec.NewInclusionRecord(p)
			if out != "" {
				if err := hcodec.WriteFile(out, rec, false); err != nil {
					return err
				}
			}
			return a.printYes(rec)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the proof to this file")

	return cmd
}

func (a *app) consistencyCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "consistency OLD NEW",
		Short: "Prove that the tree over OLD is a prefix of the tree over NEW.",
		Long: `Build trees over the lists OLD and NEW, save both to the trees file,
and prove that the OLD tree is a prefix of the NEW tree.

Prints "yes" followed by the proof, or "no" if the trees are inconsistent.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := hashtree.Build(a.h, hcodec.ParseList(args[0]))
			if err != nil {
				return fmt.Errorf("old list: %w", err)
			}
			newTree, err := hashtree.Build(a.h, hcodec.ParseList(args[1]))
			if err != nil {
				return fmt.Errorf("new list: %w", err)
			}

			if err := hcodec.WriteFile(a.cfg.TreesFile, hcodec.TreesRecord{
				Old: hcodec.NewTreeRecord(old),
				New: hcodec.NewTreeRecord(newTree),
			}, a.cfg.Compress); err != nil {
				return err
			}

			p, err := hashtree.ProveConsistency(old, newTree)
			if err != nil {
				var nap hashtree.NotAPrefixError
				if errors.As(err, &nap) {
					a.log.Info(
						"Trees are inconsistent",
						"old_size", nap.OldSize,
						"new_size", nap.NewSize,
						"index", nap.Index,
					)
					fmt.Fprintln(a.stdout, "no")
					return errNegative
				}
				return err
			}

			rec := hcodec.NewConsistencyRecord(p)
			if out != "" {
				if err := hcodec.WriteFile(out, rec, false); err != nil {
					return err
				}
			}
			return a.printYes(rec)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the proof to this file")

	return cmd
}

// printYes prints "yes" and the proof record on a single line.
func (a *app) printYes(rec any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	fmt.Fprintf(a.stdout, "yes %s\n", b)
	return nil
}
