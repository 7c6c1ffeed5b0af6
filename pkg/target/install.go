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
	"path/filepath"

	"github.com/fpemud-os/grub-install/pkg/bootsector"
	"github.com/fpemud-os/grub-install/pkg/codecutil"
	"github.com/fpemud-os/grub-install/pkg/coreimage"
	"github.com/fpemud-os/grub-install/pkg/diskcheck"
	"github.com/fpemud-os/grub-install/pkg/efiplacement"
	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/platform"
	"github.com/fpemud-os/grub-install/pkg/source"
)

func (t *Target) openBlockDevice(write bool) (grubtypes.BlockDevice, error) {
	if t.BlockDevOpen != nil {
		return t.BlockDevOpen(t.diskDevice, write)
	}
	return grubtypes.OpenBlockDevice(t.diskDevice, write)
}

// prefix returns the target-relative path of <boot>/grub/ from the mount
// root, per spec.md §4.7 step 5.
func (t *Target) prefix() (string, error) {
	rel, err := codecutil.RelPath(t.mount.MountPoint, t.grubDir())
	if err != nil {
		return "", err
	}
	return "/" + rel, nil
}

// copyPlatformFiles implements step 4 of the install protocol: clear and
// recreate <boot>/grub/<id>/, copy every *.mod from the source platform
// directory, every required addon, and every optional addon present.
func (t *Target) copyPlatformFiles(p platform.Platform, src *source.Source, srcDir string) error {
	platDir := t.platformDir(p)
	if err := codecutil.ForceMkdir(t.FS, platDir, true); err != nil {
		return grerrors.NewInstallError(string(p), "cannot prepare platform directory", err)
	}

	modFiles, err := src.ModFiles(p)
	if err != nil {
		return grerrors.NewInstallError(string(p), "cannot list source modules", err)
	}
	for _, name := range modFiles {
		if err := codecutil.CopyFile(t.FS, filepath.Join(srcDir, name), filepath.Join(platDir, name)); err != nil {
			return grerrors.NewInstallError(string(p), "cannot copy module "+name, err)
		}
	}

	for _, name := range source.RequiredAddons {
		if err := codecutil.CopyFile(t.FS, filepath.Join(srcDir, name), filepath.Join(platDir, name)); err != nil {
			return grerrors.NewInstallError(string(p), "cannot copy required addon "+name, err)
		}
	}

	for _, name := range source.OptionalAddons {
		has, err := src.HasOptionalAddon(p, name)
		if err != nil {
			return grerrors.NewInstallError(string(p), "cannot check optional addon "+name, err)
		}
		if !has {
			continue
		}
		if err := codecutil.CopyFile(t.FS, filepath.Join(srcDir, name), filepath.Join(platDir, name)); err != nil {
			return grerrors.NewInstallError(string(p), "cannot copy optional addon "+name, err)
		}
	}

	return nil
}

// buildCore implements step 5: invoke C4 with this target's module list,
// hints, UUID and prefix.
func (t *Target) buildCore(p platform.Platform, srcDir string, opts InstallOptions) ([]byte, error) {
	modules, hints := platform.ModuleListAndHints(p, platform.MountInfo{
		FSName:   t.mount.FSName,
		BIOSHint: t.mount.BIOSHint,
		EFIHint:  t.mount.EFIHint,
	})

	prefix, err := t.prefix()
	if err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot compute prefix", err)
	}

	artifact := platform.CoreArtifactOf(p)
	return t.Builder.Build(coreimage.Input{
		PlatformSourceDir: srcDir,
		Modules:           modules,
		FSUUID:            t.mount.FSUUID,
		Hints:             hints,
		Prefix:            prefix,
		DebugImage:        opts.DebugImage,
		MkimageTarget:     artifact.MkimageTarget,
		OutputFilename:    artifact.Filename,
	})
}

// InstallPlatform implements spec.md §4.7's nine-step install protocol. It
// requires W or RW mode.
func (t *Target) InstallPlatform(p platform.Platform, src *source.Source, opts InstallOptions) error {
	t.requireMode(ModeW)
	src = sourceFor(src)

	srcDir, err := src.PlatformDirectory(p)
	if err != nil {
		return err
	}

	if p.IsEFI() && t.mount.FSName != "vfat" && t.mount.FSName != "fat" {
		return grerrors.NewInstallError(string(p), "EFI platforms require a FAT filesystem at the boot mount", nil)
	}
	if t.mount.FSUUID == "" {
		return grerrors.NewInstallError(string(p), "no fsuuid found", nil)
	}

	if err := t.copyPlatformFiles(p, src, srcDir); err != nil {
		return err
	}

	core, err := t.buildCore(p, srcDir, opts)
	if err != nil {
		return err
	}

	artifact := platform.CoreArtifactOf(p)
	corePath := filepath.Join(t.platformDir(p), artifact.Filename)
	if err := t.FS.WriteFile(corePath, core, grubtypes.FilePerm); err != nil {
		return grerrors.NewInstallError(string(p), "cannot write core image", err)
	}

	info := &PlatformInstallInfo{Status: Perfect}

	switch {
	case p == platform.I386PC:
		pcFlags, err := t.installPC(p, srcDir, core, opts)
		if err != nil {
			return err
		}
		info.PCFlags = pcFlags
	case p.IsEFI():
		flags, err := efiplacement.Install(t.FS, t.bootDir, p, core)
		if err != nil {
			return err
		}
		info.EFIFlags = &flags
	}

	t.slots[p] = info
	return nil
}

// installPC implements step 7: copy boot.img, then embed the boot sector
// and core image into the MBR gap via §4.5.2.
func (t *Target) installPC(p platform.Platform, srcDir string, core []byte, opts InstallOptions) (*bootsector.Options, error) {
	bootImg, err := t.FS.ReadFile(filepath.Join(srcDir, bootImgName))
	if err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot read source boot.img", err)
	}
	if err := t.FS.WriteFile(filepath.Join(t.platformDir(p), bootImgName), bootImg, grubtypes.FilePerm); err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot write boot.img", err)
	}

	isWholeDisk := t.mount.ContainingDisk == "" || t.mount.ContainingDisk == t.diskDevice
	diskInfo, err := diskcheck.Read(t.diskDevice, isWholeDisk)
	if err == nil {
		if err := diskcheck.CheckPrecondition(diskInfo); err != nil {
			return nil, err
		}
	}

	dev, err := t.openBlockDevice(true)
	if err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot open disk device", err)
	}
	defer dev.Close()

	var sector [bootsector.SectorSize]byte
	if _, err := dev.ReadAt(sector[:], 0); err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot read current boot sector", err)
	}

	codecOpts := bootsector.Options{BPB: opts.BPB, AllowFloppy: opts.AllowFloppy, RSCodes: opts.RSCodes}
	plan, err := bootsector.InstallIntoMBR(sector, bootImg, codecOpts, core, t.hardDisk, p.BigEndian())
	if err != nil {
		return nil, err
	}

	// Ordering guarantee (spec.md §5): core goes to the platform file
	// above before the MBR sector below, so a crash mid-way still leaves
	// forward progress recoverable by re-running install.
	if _, err := dev.WriteAt(plan.Core, bootsector.SectorSize); err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot write core image into MBR gap", err)
	}
	padStart := bootsector.SectorSize + len(plan.Core)
	if pad := bootsector.MaxCoreBufferSize - padStart; pad > 0 {
		if _, err := dev.WriteAt(make([]byte, pad), int64(padStart)); err != nil {
			return nil, grerrors.NewInstallError(string(p), "cannot zero-pad MBR gap", err)
		}
	}
	if _, err := dev.WriteAt(plan.Sector[:], 0); err != nil {
		return nil, grerrors.NewInstallError(string(p), "cannot write boot sector", err)
	}

	return &codecOpts, nil
}

// RemovePlatform implements spec.md §4.7's remove protocol. It requires W
// or RW mode.
func (t *Target) RemovePlatform(p platform.Platform) error {
	t.requireMode(ModeW)

	switch {
	case p == platform.I386PC:
		if err := t.removePC(p); err != nil {
			return err
		}
	case p.IsEFI():
		if err := efiplacement.Remove(t.FS, t.bootDir, p); err != nil {
			return err
		}
	}

	if err := t.FS.RemoveAll(t.platformDir(p)); err != nil {
		return grerrors.NewInstallError(string(p), "cannot remove platform directory", err)
	}

	delete(t.slots, p)
	return nil
}

// RemoveAll removes every currently-registered platform slot, per the
// access-mode gating list in spec.md §4.7. It requires W or RW mode.
func (t *Target) RemoveAll() error {
	t.requireMode(ModeW)
	for p := range t.slots {
		if err := t.RemovePlatform(p); err != nil {
			return err
		}
	}
	return nil
}

func (t *Target) removePC(p platform.Platform) error {
	dev, err := t.openBlockDevice(true)
	if err != nil {
		return grerrors.NewInstallError(string(p), "cannot open disk device", err)
	}
	defer dev.Close()

	var sector [bootsector.SectorSize]byte
	if _, err := dev.ReadAt(sector[:], 0); err != nil {
		return grerrors.NewInstallError(string(p), "cannot read current boot sector", err)
	}

	w := bootsector.RemovePlan(sector)

	pad := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
	if _, err := dev.WriteAt(pad, bootsector.SectorSize); err != nil {
		return grerrors.NewInstallError(string(p), "cannot zero MBR gap", err)
	}
	if _, err := dev.WriteAt(w[:], 0); err != nil {
		return grerrors.NewInstallError(string(p), "cannot write zeroed boot sector", err)
	}
	return nil
}
