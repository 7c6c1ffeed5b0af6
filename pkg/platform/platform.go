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

// Package platform enumerates the firmware platforms this module knows how
// to target and derives the per-platform attributes every other component
// needs: core image filename, mkimage target string, endianness, family and
// (for EFI platforms) the removable-media filename.
package platform

import "fmt"

// Platform is a closed identifier drawn from the set GRUB itself supports.
type Platform string

const (
	I386PC            Platform = "i386-pc"
	I386EFI           Platform = "i386-efi"
	I386Qemu          Platform = "i386-qemu"
	I386Coreboot      Platform = "i386-coreboot"
	I386Multiboot     Platform = "i386-multiboot"
	I386IEEE1275      Platform = "i386-ieee1275"
	I386Xen           Platform = "i386-xen"
	I386XenPVH        Platform = "i386-xen_pvh"
	X86_64EFI         Platform = "x86_64-efi"
	X86_64Xen         Platform = "x86_64-xen"
	ARMUboot          Platform = "arm-uboot"
	ARMCoreboot       Platform = "arm-coreboot"
	ARMEFI            Platform = "arm-efi"
	ARM64EFI          Platform = "arm64-efi"
	IA64EFI           Platform = "ia64-efi"
	PowerPCIEEE1275   Platform = "powerpc-ieee1275"
	Sparc64IEEE1275   Platform = "sparc64-ieee1275"
	MipsArc           Platform = "mips-arc"
	MipselArc         Platform = "mipsel-arc"
	MipselLoongson    Platform = "mipsel-loongson"
	MipsQemuMips      Platform = "mips-qemu_mips"
	MipselQemuMips    Platform = "mipsel-qemu_mips"
	Riscv32EFI        Platform = "riscv32-efi"
	Riscv64EFI        Platform = "riscv64-efi"
)

// All is the closed set of supported platforms, in the order spec.md lists
// them.
var All = []Platform{
	I386PC, I386EFI, I386Qemu, I386Coreboot, I386Multiboot, I386IEEE1275,
	I386Xen, I386XenPVH, X86_64EFI, X86_64Xen, ARMUboot, ARMCoreboot, ARMEFI,
	ARM64EFI, IA64EFI, PowerPCIEEE1275, Sparc64IEEE1275, MipsArc, MipselArc,
	MipselLoongson, MipsQemuMips, MipselQemuMips, Riscv32EFI, Riscv64EFI,
}

// Family groups platforms that share an install strategy.
type Family string

const (
	FamilyPC        Family = "pc"
	FamilyEFI       Family = "efi"
	FamilyCoreboot  Family = "coreboot"
	FamilyXen       Family = "xen"
	FamilyQemu      Family = "qemu"
	FamilyIEEE1275  Family = "ieee1275"
	FamilyMultiboot Family = "multiboot"
	FamilyMIPSELF   Family = "mips-elf"
	FamilyOther     Family = "other"
)

var familyTable = map[Platform]Family{
	I386PC:          FamilyPC,
	I386EFI:         FamilyEFI,
	I386Qemu:        FamilyQemu,
	I386Coreboot:    FamilyCoreboot,
	I386Multiboot:   FamilyMultiboot,
	I386IEEE1275:    FamilyIEEE1275,
	I386Xen:         FamilyXen,
	I386XenPVH:      FamilyXen,
	X86_64EFI:       FamilyEFI,
	X86_64Xen:       FamilyXen,
	ARMUboot:        FamilyOther,
	ARMCoreboot:     FamilyCoreboot,
	ARMEFI:          FamilyEFI,
	ARM64EFI:        FamilyEFI,
	IA64EFI:         FamilyEFI,
	PowerPCIEEE1275: FamilyIEEE1275,
	Sparc64IEEE1275: FamilyIEEE1275,
	MipsArc:         FamilyOther,
	MipselArc:       FamilyOther,
	MipselLoongson:  FamilyMIPSELF,
	MipsQemuMips:    FamilyMIPSELF,
	MipselQemuMips:  FamilyMIPSELF,
	Riscv32EFI:      FamilyEFI,
	Riscv64EFI:      FamilyEFI,
}

// Family reports the install-strategy family of p. Panics on an unknown
// platform identifier - that is a programmer error, not a runtime one, since
// Platform values are only ever constructed from the closed set above.
func (p Platform) Family() Family {
	f, ok := familyTable[p]
	if !ok {
		panic(fmt.Sprintf("platform: unknown platform %q", p))
	}
	return f
}

// IsEFI reports whether p belongs to the EFI family.
func (p Platform) IsEFI() bool { return p.Family() == FamilyEFI }

var bigEndianSet = map[Platform]bool{
	Sparc64IEEE1275: true,
	PowerPCIEEE1275: true,
	MipsArc:         true,
	MipsQemuMips:    true,
}

// BigEndian reports the platform's core-image byte order. The big-endian
// set is exactly {sparc64-*, powerpc-*, mips-* (not mipsel-*)}; all others
// are little-endian.
func (p Platform) BigEndian() bool {
	return bigEndianSet[p]
}

// CoreArtifact is the per-platform pair the core image builder and target
// state machine need: the canonical core-image filename and the mkimage
// -O target string.
type CoreArtifact struct {
	Filename     string
	MkimageTarget string
}

// CoreArtifactOf implements spec.md §4.1's core_artifact(p) table.
func CoreArtifactOf(p Platform) CoreArtifact {
	switch p {
	case I386PC:
		return CoreArtifact{"core.img", "i386-pc"}
	case I386Qemu:
		return CoreArtifact{"core.img", "i386-qemu"}
	case Sparc64IEEE1275:
		return CoreArtifact{"core.img", "sparc64-ieee1275-raw"}
	case MipselArc, MipsArc, ARMUboot:
		return CoreArtifact{"core.img", string(p)}
	case I386Multiboot:
		return CoreArtifact{"core.elf", "i386-multiboot"}
	case I386IEEE1275, PowerPCIEEE1275:
		return CoreArtifact{"core.elf", string(p)}
	case MipselLoongson, MipsQemuMips, MipselQemuMips:
		return CoreArtifact{"core.elf", string(p) + "-elf"}
	}
	if p.Family() == FamilyEFI {
		return CoreArtifact{"core.efi", string(p)}
	}
	if p.Family() == FamilyCoreboot || p.Family() == FamilyXen {
		return CoreArtifact{"core.elf", string(p)}
	}
	panic(fmt.Sprintf("platform: no core artifact rule for %q", p))
}

// removableEFINames implements spec.md §3's EFI removable-media filename
// table.
var removableEFINames = map[Platform]string{
	I386EFI:   "BOOTIA32.EFI",
	X86_64EFI: "BOOTX64.EFI",
	IA64EFI:   "BOOTIA64.EFI",
	ARMEFI:    "BOOTARM.EFI",
	ARM64EFI:  "BOOTAA64.EFI",
	Riscv32EFI: "BOOTRISCV32.EFI",
	Riscv64EFI: "BOOTRISCV64.EFI",
}

// RemovableEFIName returns the BOOT<ARCH>.EFI filename for an EFI-family
// platform. Asserts (panics) on a non-EFI platform - callers must check
// p.IsEFI() first, per spec.md §4.1.
func RemovableEFIName(p Platform) string {
	name, ok := removableEFINames[p]
	if !ok {
		panic(fmt.Sprintf("platform: removable_efi_name called on non-EFI platform %q", p))
	}
	return name
}

// Known reports whether s names a platform in the closed set, and returns
// it as a Platform if so. Used by C7 Target to filter subdirectory names of
// <boot>/grub/ to the ones that parse as a known platform.
func Known(s string) (Platform, bool) {
	p := Platform(s)
	_, ok := familyTable[p]
	return p, ok
}
