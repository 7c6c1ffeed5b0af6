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

package target

import (
	"os"
	"path/filepath"

	"github.com/fpemud-os/grub-install/pkg/bootsector"
	"github.com/fpemud-os/grub-install/pkg/efiplacement"
	"github.com/fpemud-os/grub-install/pkg/platform"
)

const bootImgName = "boot.img"

// inspectPlatform attempts full validation of a single platform slot,
// per spec.md §4.7's initial-state rule: success -> Perfect, failure ->
// WithFlaws(reason).
func (t *Target) inspectPlatform(p platform.Platform) *PlatformInstallInfo {
	artifact := platform.CoreArtifactOf(p)
	coreImagePath := filepath.Join(t.platformDir(p), artifact.Filename)

	switch {
	case p == platform.I386PC:
		return t.inspectPC(p, coreImagePath)
	case p.IsEFI():
		return t.inspectEFI(p, coreImagePath)
	default:
		return t.inspectGeneric(coreImagePath)
	}
}

func (t *Target) inspectPC(p platform.Platform, coreImagePath string) *PlatformInstallInfo {
	bootImgPath := filepath.Join(t.platformDir(p), bootImgName)

	bootImg, err := t.FS.ReadFile(bootImgPath)
	if err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "boot.img missing"}
	}
	core, err := t.FS.ReadFile(coreImagePath)
	if err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "core.img missing"}
	}

	dev, err := t.openBlockDevice(false)
	if err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "cannot open disk device: " + err.Error()}
	}
	defer dev.Close()

	var sector [bootsector.SectorSize]byte
	if _, err := dev.ReadAt(sector[:], 0); err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "cannot read boot sector: " + err.Error()}
	}
	post := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
	if _, err := dev.ReadAt(post, bootsector.SectorSize); err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "cannot read MBR gap: " + err.Error()}
	}

	res, err := bootsector.InspectMBR(sector, post, bootImg, core, t.hardDisk, p.BigEndian())
	if err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: err.Error()}
	}
	if res.Flaw != "" {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: res.Flaw}
	}

	return &PlatformInstallInfo{
		Status: Perfect,
		PCFlags: &bootsector.Options{
			BPB:         res.BPB,
			AllowFloppy: res.AllowFloppy,
			RSCodes:     res.RSCodes,
		},
	}
}

func (t *Target) inspectEFI(p platform.Platform, coreImagePath string) *PlatformInstallInfo {
	flags, reason, err := efiplacement.Inspect(t.FS, t.bootDir, coreImagePath, p)
	if err != nil {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: err.Error()}
	}
	if reason != "" {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: reason}
	}
	return &PlatformInstallInfo{Status: Perfect, EFIFlags: &flags}
}

// inspectGeneric handles the platform families spec.md leaves to "install
// the per-platform module set plus a core image" without a dedicated
// codec (Coreboot, Xen, IEEE1275, Qemu, MIPS, RISC-V without EFI): a slot
// is Perfect when its core image exists and is non-empty, WithFlaws
// otherwise. These families have no on-disk invariant beyond "the core
// image is present", since neither the boot-sector codec (C5, i386-pc
// only) nor EFI placement (C6, EFI family only) applies to them.
func (t *Target) inspectGeneric(coreImagePath string) *PlatformInstallInfo {
	fi, err := t.FS.Stat(coreImagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &PlatformInstallInfo{Status: WithFlaws, Reason: "core image missing"}
		}
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "cannot stat core image: " + err.Error()}
	}
	if fi.Size() == 0 {
		return &PlatformInstallInfo{Status: WithFlaws, Reason: "core image is empty"}
	}
	return &PlatformInstallInfo{Status: Perfect}
}
