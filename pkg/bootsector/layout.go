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

// Package bootsector implements the BIOS/i386-PC boot-sector codec: the
// transformation of a stock boot.img into the on-disk MBR sector and back,
// and the Reed-Solomon redundancy encoding of the core image for the
// post-MBR gap. This is spec.md §4.5, the central invariant of the whole
// system. The codec is kept pure over byte buffers - no FS, no Runner - so
// it can be exercised without touching real hardware, per the design note
// in spec.md §9.
package bootsector

const (
	// SectorSize is the size of a disk sector and of the boot image.
	SectorSize = 512
	// MaxCoreBufferSize is the maximum size of the region starting at
	// sector 0 this codec will ever write or read: the boot sector plus
	// the MBR gap.
	MaxCoreBufferSize = 512 * 1024

	bpbStart       = 0x03
	bpbEnd         = 0x5a
	driveCheck     = 0x66
	driveCheckEnd  = 0x68
	windowsNTMagic = 0x1b8
	partEnd        = 0x1fe

	// reedSolomonRedundancyOffset and noReedSolomonLengthOffset are
	// offsets within the bare core image buffer itself (core.img has no
	// boot-sector prefix); within the full disk layout (boot sector then
	// core.img) they sit at 0x200 plus these.
	reedSolomonRedundancyOffset = 0x10
	noReedSolomonLengthOffset   = 0x14
)

// Options are the per-install flags that parameterize the codec, carried in
// PlatformInstallInfo for i386-pc.
type Options struct {
	BPB         bool
	AllowFloppy bool
	RSCodes     bool
}

// doubleNOP is the two-byte patch written over the drive-check jump when the
// floppy fallback is disabled.
var doubleNOP = [2]byte{0x90, 0x90}

// mbrSignature is the final two bytes of every valid boot sector.
var mbrSignature = [2]byte{0x55, 0xAA}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
