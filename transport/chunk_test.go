package transport

import (
	"bytes"
	"testing"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

func roundTrip(t *testing.T, payload []byte, chunkSize int, compressAbove int64) []byte {
	t.Helper()
	chunker := NewChunker(int64(len(payload)), 3, chunkSize, compressAbove)
	chunks := chunker.Split(payload)

	asm := NewAssembler()
	for _, c := range chunks {
		if err := asm.Append(c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, cksum, err := asm.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if asm.MetadataOffset() != 3 {
		t.Fatalf("MetadataOffset() = %d, want 3", asm.MetadataOffset())
	}
	want := cmn.ComputeChecksum(payload)
	if !cksum.Equal(want) {
		t.Fatalf("checksum mismatch after reassembly")
	}
	return got
}

func TestChunkRoundTripUncompressed(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 100)
	got := roundTrip(t, payload, 64, 0)
	if !bytes.Equal(got, payload) {
		t.Fatalf("reassembled payload mismatch")
	}
}

func TestChunkRoundTripCompressed(t *testing.T) {
	payload := bytes.Repeat([]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 1000)
	got := roundTrip(t, payload, 512, 100)
	if !bytes.Equal(got, payload) {
		t.Fatalf("reassembled compressed payload mismatch")
	}
}

func TestChunkRoundTripIncompressibleAboveThreshold(t *testing.T) {
	// Pseudo-random bytes compress poorly enough that lz4.CompressBlock
	// returns n==0 for at least some chunks; Split must still flag those
	// chunks Compressed=false so the receiver doesn't run them through
	// lz4 decompression.
	payload := make([]byte, 4096)
	x := uint32(1)
	for i := range payload {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		payload[i] = byte(x)
	}
	got := roundTrip(t, payload, 256, 100)
	if !bytes.Equal(got, payload) {
		t.Fatalf("reassembled incompressible payload mismatch")
	}
}

func TestChunkZeroLengthPayloadYieldsOneChunk(t *testing.T) {
	chunker := NewChunker(0, 0, 64, 0)
	chunks := chunker.Split(nil)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
}

func TestAssemblerRejectsChangingTotalSize(t *testing.T) {
	asm := NewAssembler()
	if err := asm.Append(Chunk{TotalSize: 10, MetadataOffset: 0, Data: []byte("x")}); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	err := asm.Append(Chunk{TotalSize: 20, MetadataOffset: 0, Data: []byte("y")})
	if err == nil {
		t.Fatalf("expected protocol violation on changed total_size mid-stream")
	}
}

func TestAssemblerRejectsShortStream(t *testing.T) {
	asm := NewAssembler()
	if err := asm.Append(Chunk{TotalSize: 10, MetadataOffset: 0, Data: []byte("abc")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, _, err := asm.Finalize(); err == nil {
		t.Fatalf("expected short-stream error")
	}
}
