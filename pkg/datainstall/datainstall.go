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

// Package datainstall is the write side of the locale/font/theme trees
// compare_source already walks and verifies (pkg/target's compareSharedTree).
// spec.md §4.7 mentions install_data(locales=...) but defers its
// implementation as "plain recursive copy", out of the core; this package
// supplies that copy, grounded on the original _handy.py's
// copyLocaleFiles/copyFontFiles/copyThemeFiles (selector is either "*" or an
// explicit name list; destination directory is force-cleared first) and the
// teacher's pkg/utils.DoCopy idiom for bulk tree sync via zloylos/grsync.
package datainstall

import (
	"fmt"
	"path/filepath"

	"github.com/zloylos/grsync"

	"github.com/fpemud-os/grub-install/pkg/codecutil"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/source"
)

// All is the selector value meaning "every name the Source has", matching
// _handy.py's "*" convention.
const All = "*"

// Installer copies locale/font/theme trees from a Source into a boot
// directory, the write-side counterpart to pkg/target's read-only compare.
type Installer struct {
	FS      grubtypes.FS
	Logger  grubtypes.Logger
	bootDir string
}

// New constructs an Installer writing under <bootDir>/grub/.
func New(fs grubtypes.FS, logger grubtypes.Logger, bootDir string) *Installer {
	return &Installer{FS: fs, Logger: logger, bootDir: bootDir}
}

func (i *Installer) grubDir() string { return filepath.Join(i.bootDir, "grub") }

// resolveNames turns a selector (All, or an explicit list) into the actual
// names to copy, validating every explicit name exists in available.
func resolveNames(selector []string, available map[string]string) ([]string, error) {
	if len(selector) == 1 && selector[0] == All {
		names := make([]string, 0, len(available))
		for name := range available {
			names = append(names, name)
		}
		return names, nil
	}
	for _, name := range selector {
		if _, ok := available[name]; !ok {
			return nil, fmt.Errorf("datainstall: %q not present in source", name)
		}
	}
	return selector, nil
}

// InstallLocales copies the given locales' grub.mo files (or every locale,
// for All) into <boot>/grub/locale/<locale>.mo, clearing that directory
// first. Mirrors _handy.py's copyLocaleFiles: destination is flat, not
// nested under LC_MESSAGES/.
func (i *Installer) InstallLocales(src *source.Source, selector []string) error {
	available, err := src.LocaleFiles()
	if err != nil {
		return err
	}
	names, err := resolveNames(selector, available)
	if err != nil {
		return err
	}

	destDir := filepath.Join(i.grubDir(), "locale")
	if err := codecutil.ForceMkdir(i.FS, destDir, true); err != nil {
		return fmt.Errorf("datainstall: cannot prepare %s: %w", destDir, err)
	}
	for _, name := range names {
		if err := codecutil.CopyFile(i.FS, available[name], filepath.Join(destDir, name+".mo")); err != nil {
			return fmt.Errorf("datainstall: cannot copy locale %q: %w", name, err)
		}
	}
	return nil
}

// InstallFonts copies the given fonts' *.pf2 files (or every font, for All)
// into <boot>/grub/fonts/<name>.pf2, clearing that directory first.
// Mirrors _handy.py's copyFontFiles.
func (i *Installer) InstallFonts(src *source.Source, selector []string) error {
	available, err := src.FontFiles()
	if err != nil {
		return err
	}
	names, err := resolveNames(selector, available)
	if err != nil {
		return err
	}

	destDir := filepath.Join(i.grubDir(), "fonts")
	if err := codecutil.ForceMkdir(i.FS, destDir, true); err != nil {
		return fmt.Errorf("datainstall: cannot prepare %s: %w", destDir, err)
	}
	for _, name := range names {
		if err := codecutil.CopyFile(i.FS, available[name], filepath.Join(destDir, name+".pf2")); err != nil {
			return fmt.Errorf("datainstall: cannot copy font %q: %w", name, err)
		}
	}
	return nil
}

// InstallThemes copies the given themes' full directory trees (or every
// theme, for All) into <boot>/grub/themes/<name>/, clearing that parent
// directory first. Mirrors _handy.py's copyThemeFiles (shutil.copytree per
// theme); unlike the flat locale/font copies, each theme directory can
// contain an arbitrary tree of images and config, so the bulk copy is
// delegated to grsync rather than walked file-by-file, per the teacher's
// pkg/utils.DoCopy idiom.
func (i *Installer) InstallThemes(src *source.Source, selector []string) error {
	available, err := src.ThemeDirectories()
	if err != nil {
		return err
	}
	names, err := resolveNames(selector, available)
	if err != nil {
		return err
	}

	destRoot := filepath.Join(i.grubDir(), "themes")
	if err := codecutil.ForceMkdir(i.FS, destRoot, true); err != nil {
		return fmt.Errorf("datainstall: cannot prepare %s: %w", destRoot, err)
	}
	for _, name := range names {
		srcDir := available[name] + "/"
		dstDir := filepath.Join(destRoot, name) + "/"
		if err := i.FS.MkdirAll(filepath.Join(destRoot, name), grubtypes.DirPerm); err != nil {
			return fmt.Errorf("datainstall: cannot create theme dir %q: %w", name, err)
		}
		task := grsync.NewTask(srcDir, dstDir, grsync.RsyncOptions{
			Quiet:   true,
			Archive: true,
			XAttrs:  true,
			ACLs:    true,
		})
		if err := task.Run(); err != nil {
			return fmt.Errorf("datainstall: cannot sync theme %q: %w", name, err)
		}
		if i.Logger != nil {
			i.Logger.Debugf("datainstall: synced theme %q", name)
		}
	}
	return nil
}

// InstallData runs InstallLocales/InstallFonts/InstallThemes for whichever
// selector is non-nil, skipping a tree entirely when its selector is nil -
// the install_data(locales=["zh_CN"]) entry point spec.md §8's scenario 5
// names.
func (i *Installer) InstallData(src *source.Source, locales, fonts, themes []string) error {
	if locales != nil {
		if err := i.InstallLocales(src, locales); err != nil {
			return err
		}
	}
	if fonts != nil {
		if err := i.InstallFonts(src, fonts); err != nil {
			return err
		}
	}
	if themes != nil {
		if err := i.InstallThemes(src, themes); err != nil {
			return err
		}
	}
	return nil
}
