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

package platform_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fpemud-os/grub-install/pkg/platform"
)

func TestPlatformSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Platform test suite")
}

var _ = Describe("Known", Label("platform"), func() {
	It("recognizes every identifier in All", func() {
		for _, p := range platform.All {
			got, ok := platform.Known(string(p))
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(p))
		}
	})

	It("rejects an unrecognized string", func() {
		_, ok := platform.Known("not-a-real-platform")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Family/BigEndian/IsEFI", Label("platform"), func() {
	It("classifies the big-endian set exactly", func() {
		bigEndian := map[platform.Platform]bool{
			platform.Sparc64IEEE1275: true,
			platform.PowerPCIEEE1275: true,
			platform.MipsArc:         true,
			platform.MipsQemuMips:    true,
		}
		for _, p := range platform.All {
			Expect(p.BigEndian()).To(Equal(bigEndian[p]), string(p))
		}
	})

	It("marks every EFI platform IsEFI and no others", func() {
		efiPlatforms := map[platform.Platform]bool{
			platform.I386EFI:    true,
			platform.X86_64EFI:  true,
			platform.ARMEFI:     true,
			platform.ARM64EFI:   true,
			platform.IA64EFI:    true,
			platform.Riscv32EFI: true,
			platform.Riscv64EFI: true,
		}
		for _, p := range platform.All {
			Expect(p.IsEFI()).To(Equal(efiPlatforms[p]), string(p))
		}
	})

	It("panics on an unknown platform value", func() {
		Expect(func() { platform.Platform("bogus").Family() }).To(Panic())
	})
})

var _ = Describe("CoreArtifactOf", Label("platform"), func() {
	It("gives i386-pc a core.img named after itself", func() {
		a := platform.CoreArtifactOf(platform.I386PC)
		Expect(a).To(Equal(platform.CoreArtifact{Filename: "core.img", MkimageTarget: "i386-pc"}))
	})

	It("gives sparc64-ieee1275 the -raw mkimage target", func() {
		a := platform.CoreArtifactOf(platform.Sparc64IEEE1275)
		Expect(a.MkimageTarget).To(Equal("sparc64-ieee1275-raw"))
	})

	It("gives every EFI platform a core.efi", func() {
		for _, p := range platform.All {
			if !p.IsEFI() {
				continue
			}
			a := platform.CoreArtifactOf(p)
			Expect(a.Filename).To(Equal("core.efi"))
			Expect(a.MkimageTarget).To(Equal(string(p)))
		}
	})

	It("resolves an artifact for every known platform without panicking", func() {
		for _, p := range platform.All {
			Expect(func() { platform.CoreArtifactOf(p) }).NotTo(Panic())
		}
	})
})

var _ = Describe("RemovableEFIName", Label("platform"), func() {
	It("returns the BOOT<ARCH>.EFI name for x86_64-efi", func() {
		Expect(platform.RemovableEFIName(platform.X86_64EFI)).To(Equal("BOOTX64.EFI"))
	})

	It("panics when called on a non-EFI platform", func() {
		Expect(func() { platform.RemovableEFIName(platform.I386PC) }).To(Panic())
	})
})

var _ = Describe("ModuleListAndHints", Label("platform"), func() {
	It("leads with biosdisk and the BIOS hint for i386-pc", func() {
		mods, hints := platform.ModuleListAndHints(platform.I386PC, platform.MountInfo{
			FSName: "ext4", BIOSHint: "(hd0,msdos1)", EFIHint: "",
		})
		Expect(mods).To(Equal([]string{"biosdisk", "ext4", "search_fs_uuid"}))
		Expect(hints).To(Equal("(hd0,msdos1)"))
	})

	It("canonicalizes vfat to the fat module", func() {
		mods, _ := platform.ModuleListAndHints(platform.I386PC, platform.MountInfo{FSName: "vfat"})
		Expect(mods).To(ContainElement("fat"))
		Expect(mods).NotTo(ContainElement("vfat"))
	})

	It("carries the EFI hint and no disk driver for EFI platforms", func() {
		mods, hints := platform.ModuleListAndHints(platform.X86_64EFI, platform.MountInfo{
			FSName: "ext4", EFIHint: "(hd0,gpt2)/EFI/grub",
		})
		Expect(mods).To(Equal([]string{"ext4", "search_fs_uuid"}))
		Expect(hints).To(Equal("(hd0,gpt2)/EFI/grub"))
	})

	It("appends the native disk-module set for coreboot/qemu/multiboot platforms", func() {
		mods, hints := platform.ModuleListAndHints(platform.I386Coreboot, platform.MountInfo{FSName: "ext4"})
		Expect(mods).To(Equal([]string{"pata", "ahci", "ohci", "uhci", "ehci", "ubms", "ext4", "search_fs_uuid"}))
		Expect(hints).To(BeEmpty())
	})

	It("always ends with search_fs_uuid even with no filesystem hint", func() {
		mods, _ := platform.ModuleListAndHints(platform.ARMUboot, platform.MountInfo{})
		Expect(mods[len(mods)-1]).To(Equal("search_fs_uuid"))
	})
})
