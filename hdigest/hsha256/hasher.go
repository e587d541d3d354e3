package hsha256

import (
	"crypto/sha256"

	"github.com/gordian-engine/hashtree/hdigest"
)

// Name is the value returned by [Hasher.Name].
const Name = "sha256"

// Hasher is a [hdigest.Hasher] backed by SHA-256.
//
// Leaves hash as SHA-256(0x00 || data)
// and nodes hash as SHA-256(0x01 || left || right).
type Hasher struct{}

var _ hdigest.Hasher = Hasher{}

func (Hasher) Leaf(data []byte) hdigest.Digest {
	h := sha256.New()
	_, _ = h.Write([]byte{hdigest.LeafTag})
	_, _ = h.Write(data)

	var d hdigest.Digest
	h.Sum(d[:0])
	return d
}

func (Hasher) Node(left, right hdigest.Digest) hdigest.Digest {
	var in [1 + 2*hdigest.Size]byte
	in[0] = hdigest.NodeTag
	copy(in[1:], left[:])
	copy(in[1+hdigest.Size:], right[:])
	return sha256.Sum256(in[:])
}

func (Hasher) Name() string {
	return Name
}
