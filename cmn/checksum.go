package cmn

import "github.com/OneOfOne/xxhash"

// Checksum is a payload content digest, computed the same way the
// teacher's `cos.Cksum`/`LOM.ComputeCksum` compute theirs: xxhash over
// the full byte range, stored alongside the object and reported by
// ObjStoreInfo. It is not compared against any other digest: neither
// finalizing a payload nor pulling one from a peer store re-validates it.
type Checksum struct {
	Value uint64
}

func ComputeChecksum(b []byte) Checksum {
	return Checksum{Value: xxhash.Checksum64(b)}
}

func (c Checksum) Equal(o Checksum) bool { return c.Value == o.Value }

func (c Checksum) IsEmpty() bool { return c.Value == 0 }

// Hasher incrementally hashes chunks as they arrive over StartDelivery,
// mirroring `cos.CopyAndChecksum`'s streaming-checksum shape without
// requiring the whole payload to be buffered before validating.
type Hasher struct {
	h *xxhash.XXHash64
}

func NewHasher() *Hasher { return &Hasher{h: xxhash.New64()} }

func (h *Hasher) Write(b []byte) { h.h.Write(b) }

func (h *Hasher) Sum() Checksum { return Checksum{Value: h.h.Sum64()} }
