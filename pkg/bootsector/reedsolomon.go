/*
Copyright © 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bootsector

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// ErrCoreVersionMismatch is returned when the core image's
// no-reed-solomon-length header field reads the 0xFFFF sentinel, meaning the
// core image was built by a grub-mkimage version this codec doesn't
// understand.
var ErrCoreVersionMismatch = fmt.Errorf("core.img version mismatch")

func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// possibleSize computes the Reed-Solomon-encoded size for a raw core image
// of length l: round up to a sector, then double, per spec.md §4.5.1.
func possibleSize(l int) int {
	rounded := ((l + SectorSize - 1) / SectorSize) * SectorSize
	return rounded * 2
}

// readNoRSLength reads the KERNEL_I386_PC_NO_REED_SOLOMON_LENGTH field
// (offset 0x14, 16-bit, platform-native endianness) from a core image
// buffer. core here is the bare mkimage output with no boot-sector prefix,
// so the field sits at its offset within core.img directly.
func readNoRSLength(core []byte, bigEndian bool) (int, error) {
	off := noReedSolomonLengthOffset
	if off+2 > len(core) {
		return 0, fmt.Errorf("core image too short to contain no-reed-solomon-length field")
	}
	v := byteOrder(bigEndian).Uint16(core[off : off+2])
	if v == 0xFFFF {
		return 0, ErrCoreVersionMismatch
	}
	return int(v), nil
}

// writeRedundancyField writes newLen into the
// KERNEL_I386_PC_REED_SOLOMON_REDUNDANCY field (offset 0x10, 32-bit,
// platform-native endianness), mutating a copy of core. Like
// readNoRSLength, this offset is within core.img itself.
func writeRedundancyField(core []byte, newLen int, bigEndian bool) []byte {
	out := make([]byte, len(core))
	copy(out, core)
	off := reedSolomonRedundancyOffset
	byteOrder(bigEndian).PutUint32(out[off:off+4], uint32(newLen))
	return out
}

// rsShardSize is the unit this codec slices both the protected data region
// and the generated parity into before handing them to the RS encoder.
const rsShardSize = SectorSize

// encodeParity runs klauspost/reedsolomon over data (zero-padded to a
// multiple of rsShardSize) and returns exactly parityLen bytes of parity,
// deterministic in data and parityLen (truncating or zero-extending the
// last parity shard as needed to hit the exact requested length).
func encodeParity(data []byte, parityLen int) ([]byte, error) {
	if parityLen <= 0 {
		return nil, nil
	}
	dataShards := (len(data) + rsShardSize - 1) / rsShardSize
	if dataShards == 0 {
		dataShards = 1
	}
	parityShards := (parityLen + rsShardSize - 1) / rsShardSize
	if parityShards == 0 {
		parityShards = 1
	}

	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("constructing reed-solomon encoder: %w", err)
	}

	shards := make([][]byte, dataShards+parityShards)
	for i := 0; i < dataShards; i++ {
		shard := make([]byte, rsShardSize)
		start := i * rsShardSize
		end := start + rsShardSize
		if start < len(data) {
			n := copy(shard, data[start:min(end, len(data))])
			_ = n
		}
		shards[i] = shard
	}
	for i := dataShards; i < dataShards+parityShards; i++ {
		shards[i] = make([]byte, rsShardSize)
	}

	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("reed-solomon encode: %w", err)
	}

	parity := make([]byte, 0, parityShards*rsShardSize)
	for i := dataShards; i < dataShards+parityShards; i++ {
		parity = append(parity, shards[i]...)
	}
	if len(parity) < parityLen {
		parity = append(parity, make([]byte, parityLen-len(parity))...)
	}
	return parity[:parityLen], nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// EncodeCore transforms a raw core image into its Reed-Solomon-encoded form
// for embedding in the MBR gap, per spec.md §4.5.2: read noRsLen, reject the
// 0xFFFF version-mismatch sentinel, compute newLen, write it back into the
// redundancy field, and append newLen-len(core) parity bytes computed over
// core[noRsLen:].
func EncodeCore(core []byte, bigEndian bool) ([]byte, error) {
	noRsLen, err := readNoRSLength(core, bigEndian)
	if err != nil {
		return nil, err
	}
	headerLen := noRsLen
	if headerLen > len(core) {
		return nil, fmt.Errorf("no-reed-solomon-length %d exceeds core image size %d", noRsLen, len(core))
	}

	newLen := possibleSize(len(core))
	parityLen := newLen - len(core)

	parity, err := encodeParity(core[headerLen:], parityLen)
	if err != nil {
		return nil, err
	}

	withField := writeRedundancyField(core, newLen, bigEndian)
	out := make([]byte, 0, newLen)
	out = append(out, withField...)
	out = append(out, parity...)
	return out, nil
}
