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

// Package efiplacement implements spec.md §4.6: copying a platform's core
// image to the removable-media EFI path, and the inverse checks/removal.
// Grounded on the teacher's Grub.InstallEFIBinaries/findEFIImages
// ensure-dir-then-copy idiom.
package efiplacement

import (
	"bytes"
	"os"
	"path/filepath"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/platform"
)

// EFIBootDir is the fixed removable-media path under a boot directory.
const EFIBootDir = "EFI/BOOT"

// Flags records the EFI-specific PlatformInstallInfo payload, per spec.md §3.
type Flags struct {
	Removable bool
	NVRAM     bool
}

// Install copies core (the platform's core.efi bytes, already written to
// <boot>/grub/<platform>/core.efi by the caller) into
// <boot>/EFI/BOOT/<removable-name>, creating EFI/ and EFI/BOOT/ as needed.
// Returns the Flags to record for this slot: removable=true, nvram=false,
// per spec.md §3 (NVRAM registration is a separate, optional step - see
// pkg/efinvram).
func Install(fs grubtypes.FS, bootDir string, p platform.Platform, core []byte) (Flags, error) {
	if !p.IsEFI() {
		panic("efiplacement: Install called on non-EFI platform")
	}

	dir := filepath.Join(bootDir, EFIBootDir)
	if err := fs.MkdirAll(dir, grubtypes.DirPerm); err != nil {
		return Flags{}, grerrors.NewInstallError(string(p), "cannot create EFI/BOOT directory", err)
	}

	target := filepath.Join(dir, platform.RemovableEFIName(p))
	if err := fs.WriteFile(target, core, grubtypes.FilePerm); err != nil {
		return Flags{}, grerrors.NewInstallError(string(p), "cannot write removable EFI image", err)
	}

	return Flags{Removable: true, NVRAM: false}, nil
}

// Inspect verifies that both the platform's core.efi and the removable EFI
// copy exist and are byte-equal, per spec.md §4.6.
func Inspect(fs grubtypes.FS, bootDir, coreImagePath string, p platform.Platform) (Flags, string, error) {
	removablePath := filepath.Join(bootDir, EFIBootDir, platform.RemovableEFIName(p))

	coreBytes, err := fs.ReadFile(coreImagePath)
	if err != nil {
		return Flags{}, "core image missing", nil
	}
	removableBytes, err := fs.ReadFile(removablePath)
	if err != nil {
		return Flags{}, "removable EFI image missing", nil
	}
	if !bytes.Equal(coreBytes, removableBytes) {
		return Flags{}, "removable EFI image does not match core image", nil
	}
	return Flags{Removable: true, NVRAM: false}, "", nil
}

// Remove deletes the platform's removable EFI file, then removes EFI/BOOT/
// and EFI/ if they are left empty, per spec.md §4.6.
func Remove(fs grubtypes.FS, bootDir string, p platform.Platform) error {
	removablePath := filepath.Join(bootDir, EFIBootDir, platform.RemovableEFIName(p))
	if err := fs.Remove(removablePath); err != nil && !os.IsNotExist(err) {
		return grerrors.NewInstallError(string(p), "cannot remove removable EFI image", err)
	}

	removeIfEmpty(fs, filepath.Join(bootDir, EFIBootDir))
	removeIfEmpty(fs, filepath.Join(bootDir, "EFI"))
	return nil
}

func removeIfEmpty(fs grubtypes.FS, dir string) {
	entries, err := fs.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = fs.Remove(dir)
}
