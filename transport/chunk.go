// Package transport implements the chunked, streamed object transfer
// primitives that back ObjStore.StreamObjTo / StartDelivery (spec §4.2,
// §6 ObjChunk). Chunking policy here: split at cfg.ChunkSizeBytes,
// repeating total_size/metadata_offset on every chunk so the receiver
// can validate cross-chunk invariance (spec §9), and optionally lz4
// compressing the data field above a size threshold — the intra-cluster
// compression knob the teacher's transport layer also exposes.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package transport

import (
	"github.com/pierrec/lz4/v3"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

// Chunk is the wire shape of one ObjChunk (spec §6): total_size and
// metadata_offset are invariant across a stream and repeated on every
// chunk purely for receiver simplicity.
type Chunk struct {
	TotalSize      int64
	MetadataOffset int64
	Data           []byte
	Compressed     bool
}

// Chunker splits a finalized payload into a sequence of Chunks no
// larger than chunkSize, compressing each one with lz4 once the whole
// payload crosses compressAbove bytes.
type Chunker struct {
	totalSize      int64
	metadataOffset int64
	chunkSize      int
	compressAbove  int64
}

func NewChunker(totalSize, metadataOffset int64, chunkSize int, compressAbove int64) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1 << 20
	}
	return &Chunker{totalSize: totalSize, metadataOffset: metadataOffset, chunkSize: chunkSize, compressAbove: compressAbove}
}

// Split returns the ordered Chunks covering buf (the full in-memory
// payload). Real streaming implementations would read incrementally
// from the source store's buffer; since our payloads live fully in
// memory (no persistence, spec Non-goals), slicing is sufficient.
func (c *Chunker) Split(buf []byte) []Chunk {
	var chunks []Chunk
	compress := c.compressAbove > 0 && c.totalSize > c.compressAbove
	for off := 0; off < len(buf); off += c.chunkSize {
		end := off + c.chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		data := buf[off:end]
		compressed := false
		if compress {
			data, compressed = compressChunk(data)
		}
		chunks = append(chunks, Chunk{
			TotalSize:      c.totalSize,
			MetadataOffset: c.metadataOffset,
			Data:           data,
			Compressed:     compressed,
		})
	}
	if len(chunks) == 0 {
		// zero-length payloads still get one chunk so the receiver
		// observes total_size/metadata_offset and can finalize.
		chunks = append(chunks, Chunk{TotalSize: c.totalSize, MetadataOffset: c.metadataOffset})
	}
	return chunks
}

// compressChunk attempts lz4 block compression and reports whether it
// actually shrank b. lz4.CompressBlock returns n==0 for incompressible
// input, in which case the caller must send the raw bytes uncompressed
// rather than mislabel them.
func compressChunk(b []byte) ([]byte, bool) {
	out := make([]byte, lz4.CompressBlockBound(len(b)))
	var ht [1 << 16]int
	n, err := lz4.CompressBlock(b, out, ht[:])
	if err != nil || n == 0 {
		return b, false
	}
	return out[:n], true
}

// Assembler reconstructs a payload from an incoming chunk stream,
// validating that total_size/metadata_offset stay invariant across the
// stream (first chunk is authoritative — spec §9 Design Notes) and
// incrementally checksumming the reassembled bytes.
type Assembler struct {
	totalSize      int64
	metadataOffset int64
	buf            []byte
	written        int64
	hasher         *cmn.Hasher
	started        bool
}

func NewAssembler() *Assembler {
	return &Assembler{hasher: cmn.NewHasher()}
}

// Append validates and appends one chunk, decompressing it first if
// flagged. Returns ProtocolViolation if total_size/metadata_offset
// disagree with the first chunk observed.
func (a *Assembler) Append(c Chunk) error {
	if !a.started {
		a.started = true
		a.totalSize = c.TotalSize
		a.metadataOffset = c.MetadataOffset
		a.buf = make([]byte, 0, c.TotalSize)
	} else if c.TotalSize != a.totalSize || c.MetadataOffset != a.metadataOffset {
		return &cmn.ErrProtocolViolation{Detail: "chunk total_size/metadata_offset changed mid-stream"}
	}
	data := c.Data
	if c.Compressed {
		dec, err := decompressChunk(data, a.totalSize-a.written)
		if err != nil {
			return &cmn.ErrProtocolViolation{Detail: "bad lz4 chunk: " + err.Error()}
		}
		data = dec
	}
	a.buf = append(a.buf, data...)
	a.hasher.Write(data)
	a.written += int64(len(data))
	return nil
}

// Finalize returns the reassembled payload and its checksum once the
// stream is exhausted. Returns ProtocolViolation if fewer bytes arrived
// than total_size promised.
func (a *Assembler) Finalize() ([]byte, cmn.Checksum, error) {
	if a.written != a.totalSize {
		return nil, cmn.Checksum{}, &cmn.ErrProtocolViolation{Detail: "short stream"}
	}
	return a.buf, a.hasher.Sum(), nil
}

func (a *Assembler) MetadataOffset() int64 { return a.metadataOffset }

func decompressChunk(b []byte, remaining int64) ([]byte, error) {
	// A chunk never decompresses to more than the bytes total_size still
	// leaves unfilled, so that bounds the output buffer.
	if remaining < 0 {
		remaining = 0
	}
	out := make([]byte, remaining)
	n, err := lz4.UncompressBlock(b, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
