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

package platform

// MountInfo is the minimal slice of a mount-probe result that the module
// list needs: filesystem name and the embedding hint string appropriate for
// this platform's firmware.
type MountInfo struct {
	FSName   string
	BIOSHint string
	EFIHint  string
}

// fsModuleNames canonicalizes a kernel filesystem name to the GRUB module
// name that implements it. Unlisted names pass through unchanged (GRUB's
// module names usually match the kernel fs name 1:1).
var fsModuleNames = map[string]string{
	"vfat": "fat",
}

func fsModuleName(fsName string) string {
	if mod, ok := fsModuleNames[fsName]; ok {
		return mod
	}
	return fsName
}

// nativeDiskModules is the module set appended for platforms whose firmware
// has no built-in disk driver and must probe native controllers instead.
var nativeDiskModules = []string{"pata", "ahci", "ohci", "uhci", "ehci", "ubms"}

// ModuleListAndHints implements spec.md §4.1's module_list_and_hints(p,
// mount): it returns the initial module list (disk driver plus, always, the
// filesystem driver and search_fs_uuid) and the embedding-hint string to
// bake into load.cfg.
func ModuleListAndHints(p Platform, mount MountInfo) (modules []string, hints string) {
	switch {
	case p == I386PC:
		modules = []string{"biosdisk"}
		hints = mount.BIOSHint
	case p.Family() == FamilyEFI:
		hints = mount.EFIHint
	case p == I386Multiboot || p.Family() == FamilyCoreboot || p.Family() == FamilyQemu || p == MipselLoongson:
		modules = append(modules, nativeDiskModules...)
	default:
		// no disk modules, empty hints
	}

	if mount.FSName != "" {
		modules = append(modules, fsModuleName(mount.FSName))
	}
	modules = append(modules, "search_fs_uuid")
	return modules, hints
}
