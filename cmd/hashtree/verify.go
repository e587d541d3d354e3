package main

import (
	"fmt"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hcodec"
	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/spf13/cobra"
)

func (a *app) verifyInclusionCommand() *cobra.Command {
	var rootHex, proofFile string

	cmd := &cobra.Command{
		Use:   "verify-inclusion DATA",
		Short: "Check an inclusion proof for DATA against a root.",
		Long: `Check an inclusion proof, as written by "inclusion --out",
for DATA against the given root.

Prints "yes" if the proof holds and "no" otherwise.
A proof whose shape does not fit its tree size is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := hdigest.ParseDigest(rootHex)
			if err != nil {
				return fmt.Errorf("--root: %w", err)
			}

			var rec hcodec.InclusionRecord
			if err := hcodec.ReadFile(proofFile, &rec); err != nil {
				return err
			}

			ok, err := hashtree.VerifyInclusion(a.h, root, []byte(args[0]), rec.Proof())
			if err != nil {
				return err
			}
			return a.printVerdict(ok)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rootHex, "root", "", "Hex root of the tree (required)")
	f.StringVar(&proofFile, "proof", "", "Path to the proof file (required)")
	_ = cmd.MarkFlagRequired("root")
	_ = cmd.MarkFlagRequired("proof")

	return cmd
}

func (a *app) verifyConsistencyCommand() *cobra.Command {
	var (
		oldRootHex, newRootHex string
		oldSize, newSize       uint64
		proofFile              string
	)

	cmd := &cobra.Command{
		Use:   "verify-consistency",
		Short: "Check a consistency proof between two roots.",
		Long: `Check a consistency proof, as written by "consistency --out",
between the old and new roots and sizes.

Prints "yes" if the proof holds and "no" otherwise.
A proof that disagrees with the given sizes is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			oldRoot, err := hdigest.ParseDigest(oldRootHex)
			if err != nil {
				return fmt.Errorf("--old-root: %w", err)
			}
			newRoot, err := hdigest.ParseDigest(newRootHex)
			if err != nil {
				return fmt.Errorf("--new-root: %w", err)
			}

			var rec hcodec.ConsistencyRecord
			if err := hcodec.ReadFile(proofFile, &rec); err != nil {
				return err
			}

			ok, err := hashtree.VerifyConsistency(a.h, oldRoot, oldSize, newRoot, newSize, rec.Proof())
			if err != nil {
				return err
			}
			return a.printVerdict(ok)
		},
	}

	f := cmd.Flags()
	f.StringVar(&oldRootHex, "old-root", "", "Hex root of the old tree (required)")
	f.Uint64Var(&oldSize, "old-size", 0, "Leaf count of the old tree (required)")
	f.StringVar(&newRootHex, "new-root", "", "Hex root of the new tree (required)")
	f.Uint64Var(&newSize, "new-size", 0, "Leaf count of the new tree (required)")
	f.StringVar(&proofFile, "proof", "", "Path to the proof file (required)")
	for _, name := range []string{"old-root", "old-size", "new-root", "new-size", "proof"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) printVerdict(ok bool) error {
	if !ok {
		fmt.Fprintln(a.stdout, "no")
		return errNegative
	}
	fmt.Fprintln(a.stdout, "yes")
	return nil
}
