package hblake2b

import (
	"github.com/gordian-engine/hashtree/hdigest"
	"golang.org/x/crypto/blake2b"
)

// Name is the value returned by [Hasher.Name].
const Name = "blake2b"

// Hasher is a [hdigest.Hasher] backed by unkeyed BLAKE2b-256.
// It uses the same 0x00 and 0x01 domain tags as the SHA-256 hasher.
type Hasher struct{}

var _ hdigest.Hasher = Hasher{}

func (Hasher) Leaf(data []byte) hdigest.Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only possible with an oversized key.
		panic(err)
	}
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
	return blake2b.Sum256(in[:])
}

func (Hasher) Name() string {
	return Name
}
