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
	"bytes"
	"fmt"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
)

// InstallPlan is the result of InstallIntoMBR: the 512-byte sector to write
// at offset 0, and the (possibly Reed-Solomon-encoded) core image bytes to
// write immediately after it.
type InstallPlan struct {
	Sector [SectorSize]byte
	Core   []byte
}

// InstallIntoMBR computes the sector and core bytes to write for an
// i386-pc install, per spec.md §4.5.2.
//
//   - diskSector is the disk's current first 512 bytes, T.
//   - bootImg is the stock local boot.img, B; must be exactly 512 bytes.
//   - hardDisk reports whether the target device is a hard disk (as opposed
//     to a floppy); the floppy-workaround fields only apply to hard disks.
func InstallIntoMBR(diskSector [SectorSize]byte, bootImg []byte, opts Options, core []byte, hardDisk, bigEndian bool) (InstallPlan, error) {
	if len(bootImg) != SectorSize {
		return InstallPlan{}, grerrors.NewInstallError("i386-pc", fmt.Sprintf("boot.img must be exactly %d bytes, got %d", SectorSize, len(bootImg)), nil)
	}
	if len(core) < SectorSize || len(core) > MaxCoreBufferSize {
		return InstallPlan{}, grerrors.NewInstallError("i386-pc", fmt.Sprintf("core image size %d out of range [%d, %d]", len(core), SectorSize, MaxCoreBufferSize), nil)
	}

	var w [SectorSize]byte
	copy(w[:], bootImg)

	if opts.BPB {
		copy(w[bpbStart:bpbEnd], diskSector[bpbStart:bpbEnd])
	}
	if !opts.AllowFloppy && hardDisk {
		copy(w[driveCheck:driveCheckEnd], doubleNOP[:])
		copy(w[windowsNTMagic:partEnd], diskSector[windowsNTMagic:partEnd])
	}

	outCore := core
	if opts.RSCodes {
		encoded, err := EncodeCore(core, bigEndian)
		if err != nil {
			return InstallPlan{}, grerrors.NewInstallError("i386-pc", "reed-solomon encoding failed", err)
		}
		outCore = encoded
	}

	return InstallPlan{Sector: w, Core: outCore}, nil
}

// InspectResult is what §4.5.3 recovers by reading an existing install back.
type InspectResult struct {
	BPB         bool
	AllowFloppy bool
	RSCodes     bool
	// Flaw is non-empty when the on-disk content is inconsistent; all
	// other fields are still filled in on a best-effort basis.
	Flaw string
}

// InspectMBR reverses §4.5.2: given the disk's current first sector T, the
// next (MaxCoreBufferSize-SectorSize) bytes (the "post" region), the local
// boot.img B and the expected raw core image C, recover the flags that were
// used to install it, or report why the on-disk content is inconsistent.
func InspectMBR(diskSector [SectorSize]byte, post []byte, bootImg []byte, core []byte, hardDisk, bigEndian bool) (InspectResult, error) {
	if len(bootImg) != SectorSize {
		return InspectResult{}, grerrors.NewInstallError("i386-pc", fmt.Sprintf("boot.img must be exactly %d bytes, got %d", SectorSize, len(bootImg)), nil)
	}
	if len(core) < SectorSize || len(core) > MaxCoreBufferSize {
		return InspectResult{}, grerrors.NewInstallError("i386-pc", fmt.Sprintf("core image size %d out of range [%d, %d]", len(core), SectorSize, MaxCoreBufferSize), nil)
	}

	var res InspectResult
	res.BPB = !isAllZero(diskSector[bpbStart:bpbEnd])

	driveCheckBytes := diskSector[driveCheck:driveCheckEnd]
	res.AllowFloppy = !(driveCheckBytes[0] == doubleNOP[0] && driveCheckBytes[1] == doubleNOP[1])

	var w [SectorSize]byte
	copy(w[:], bootImg)
	if res.BPB {
		copy(w[bpbStart:bpbEnd], diskSector[bpbStart:bpbEnd])
	}
	if !res.AllowFloppy && hardDisk {
		copy(w[driveCheck:driveCheckEnd], doubleNOP[:])
		copy(w[windowsNTMagic:partEnd], diskSector[windowsNTMagic:partEnd])
	}

	if !bytes.Equal(w[:], diskSector[:]) {
		res.Flaw = "invalid MBR record content"
		return res, nil
	}

	postLen := MaxCoreBufferSize - SectorSize
	if len(post) != postLen {
		return InspectResult{}, grerrors.NewInstallError("i386-pc", fmt.Sprintf("post-sector region must be exactly %d bytes, got %d", postLen, len(post)), nil)
	}

	if bytes.Equal(post[:len(core)], core) {
		res.RSCodes = false
	} else {
		encoded, err := EncodeCore(core, bigEndian)
		if err != nil {
			res.Flaw = fmt.Sprintf("reed-solomon re-encoding failed: %v", err)
			return res, nil
		}
		if len(post) < len(encoded) || !bytes.Equal(post[:len(encoded)], encoded) {
			res.Flaw = "core.img content does not match source or its reed-solomon encoding"
			return res, nil
		}
		res.RSCodes = true
		core = encoded
	}

	if !isAllZero(post[len(core):]) {
		res.Flaw = "disk content after core.img should be all zero"
	}

	return res, nil
}

// RemovePlan is what §4.5.4 writes to remove an i386-pc install: a zeroed
// boot sector with the BPB and MBR-partition-table regions preserved, plus
// zero padding for the rest of the gap.
func RemovePlan(diskSector [SectorSize]byte) [SectorSize]byte {
	var w [SectorSize]byte
	w[SectorSize-2] = mbrSignature[0]
	w[SectorSize-1] = mbrSignature[1]
	copy(w[bpbStart:bpbEnd], diskSector[bpbStart:bpbEnd])
	copy(w[windowsNTMagic:partEnd], diskSector[windowsNTMagic:partEnd])
	return w
}
