package hcodec

import (
	"fmt"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hdigest"
)

// TreeRecord is the stored form of a [hashtree.Tree].
type TreeRecord struct {
	// Hash is the [hdigest.Hasher] name the tree was built with.
	Hash string `json:"hash"`

	Leaves []LeafRecord       `json:"leaves"`
	Levels [][]hdigest.Digest `json:"levels"`
	Root   hdigest.Digest     `json:"root"`
}

type LeafRecord struct {
	Data []byte         `json:"data"`
	Hash hdigest.Digest `json:"hash"`
}

// TreesRecord holds the two trees of the most recent consistency check.
type TreesRecord struct {
	Old TreeRecord `json:"old_tree"`
	New TreeRecord `json:"new_tree"`
}

type InclusionRecord struct {
	LeafIndex uint64           `json:"leaf_index"`
	TreeSize  uint64           `json:"tree_size"`
	Siblings  []hdigest.Digest `json:"siblings"`
}

type ConsistencyRecord struct {
	OldSize uint64           `json:"old_size"`
	NewSize uint64           `json:"new_size"`
	Path    []hdigest.Digest `json:"path"`
}

// NewTreeRecord returns the record for t.
func NewTreeRecord(t *hashtree.Tree) TreeRecord {
	data := t.LeafData()
	rec := TreeRecord{
		Hash:   t.Hasher().Name(),
		Leaves: make([]LeafRecord, len(data)),
		Levels: t.Levels(),
		Root:   t.Root(),
	}
	for i, d := range data {
		rec.Leaves[i] = LeafRecord{Data: d, Hash: rec.Levels[0][i]}
	}
	return rec
}

// Tree reassembles the stored tree and recomputes every hash in it.
//
// The record must have been written with a hasher of the same name as h.
// Any disagreement between the leaves, levels, and root
// is reported as a [hashtree.MalformedTreeError].
func (r TreeRecord) Tree(h hdigest.Hasher) (*hashtree.Tree, error) {
	if r.Hash != h.Name() {
		return nil, fmt.Errorf(
			"tree was hashed with %q, cannot load it with %q", r.Hash, h.Name(),
		)
	}
	if len(r.Levels) == 0 {
		return nil, hashtree.MalformedTreeError{Reason: "record has no levels"}
	}

	data := make([][]byte, len(r.Leaves))
	for i, l := range r.Leaves {
		data[i] = l.Data
	}

	t, err := hashtree.FromLevels(h, data, r.Levels)
	if err != nil {
		return nil, err
	}

	for i, l := range r.Leaves {
		if l.Hash != r.Levels[0][i] {
			return nil, hashtree.MalformedTreeError{Reason: fmt.Sprintf(
				"leaf %d hash %s disagrees with level 0 hash %s", i, l.Hash, r.Levels[0][i],
			)}
		}
	}
	if t.Root() != r.Root {
		return nil, hashtree.MalformedTreeError{Reason: fmt.Sprintf(
			"stored root %s disagrees with top level %s", r.Root, t.Root(),
		)}
	}

	if err := t.Check(); err != nil {
		return nil, err
	}

	return t, nil
}

func NewInclusionRecord(p hashtree.InclusionProof) InclusionRecord {
	return InclusionRecord{
		LeafIndex: p.LeafIndex,
		TreeSize:  p.TreeSize,
		Siblings:  p.Siblings,
	}
}

func (r InclusionRecord) Proof() hashtree.InclusionProof {
	return hashtree.InclusionProof{
		LeafIndex: r.LeafIndex,
		TreeSize:  r.TreeSize,
		Siblings:  r.Siblings,
	}
}

func NewConsistencyRecord(p hashtree.ConsistencyProof) ConsistencyRecord {
	return ConsistencyRecord{
		OldSize: p.OldSize,
		NewSize: p.NewSize,
		Path:    p.Path,
	}
}

func (r ConsistencyRecord) Proof() hashtree.ConsistencyProof {
	return hashtree.ConsistencyProof{
		OldSize: r.OldSize,
		NewSize: r.NewSize,
		Path:    r.Path,
	}
}
