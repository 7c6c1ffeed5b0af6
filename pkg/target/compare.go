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
	"bytes"
	"path/filepath"

	"github.com/fpemud-os/grub-install/pkg/codecutil"
	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/platform"
	"github.com/fpemud-os/grub-install/pkg/source"
)

// CompareSource implements spec.md §4.7's compare-source protocol for every
// registered (Perfect) slot, plus the shared locale/fonts/themes trees. It
// requires R or RW mode and never mutates state.
func (t *Target) CompareSource(src *source.Source) error {
	t.requireMode(ModeR)
	src = sourceFor(src)

	errs := grerrors.NewCompareSourceError("")

	for _, p := range t.Platforms() {
		t.comparePlatform(p, src, errs)
	}
	t.compareSharedTree(src, errs)

	return errs.ErrorOrNil()
}

// comparePlatform diffs one platform's on-disk directory against the
// Source: module list, required addons, optional-if-present addons byte for
// byte; recomputes the core image twice (debug_image absent/present) and
// accepts either match; flags any file under the platform directory not
// traceable to one of those (boot.img excepted for i386-pc, checked
// separately) as redundant.
func (t *Target) comparePlatform(p platform.Platform, src *source.Source, errs *grerrors.CompareSourceError) {
	srcDir, err := src.PlatformDirectory(p)
	if err != nil {
		errs.Add("platform %s: not present in source: %v", p, err)
		return
	}
	platDir := t.platformDir(p)

	accounted := map[string]bool{}

	modFiles, err := src.ModFiles(p)
	if err != nil {
		errs.Add("platform %s: cannot list source modules: %v", p, err)
		return
	}
	label := "platform " + string(p)

	for _, name := range modFiles {
		t.compareOneFile(label, filepath.Join(srcDir, name), filepath.Join(platDir, name), name, errs)
		accounted[name] = true
	}

	for _, name := range source.RequiredAddons {
		t.compareOneFile(label, filepath.Join(srcDir, name), filepath.Join(platDir, name), name, errs)
		accounted[name] = true
	}

	for _, name := range source.OptionalAddons {
		has, err := src.HasOptionalAddon(p, name)
		if err != nil {
			errs.Add("%s: cannot check optional addon %s: %v", label, name, err)
			continue
		}
		if has {
			t.compareOneFile(label, filepath.Join(srcDir, name), filepath.Join(platDir, name), name, errs)
		}
		accounted[name] = true
	}

	t.compareCore(p, src, srcDir, errs, accounted)

	if p == platform.I386PC {
		accounted[bootImgName] = true
	}

	t.flagRedundantFiles(platDir, accounted, errs)
}

func (t *Target) compareOneFile(label, srcPath, dstPath, name string, errs *grerrors.CompareSourceError) {
	equal, err := codecutil.FilesEqual(t.FS, srcPath, dstPath)
	if err != nil {
		errs.Add("%s: %s: %v", label, name, err)
		return
	}
	if !equal {
		errs.Add("%s: %s differs from source", label, name)
	}
}

// compareCore recomputes the core image with and without a debug line and
// accepts the on-disk file if either byte-matches, per spec.md §4.7.
func (t *Target) compareCore(p platform.Platform, src *source.Source, srcDir string, errs *grerrors.CompareSourceError, accounted map[string]bool) {
	artifact := platform.CoreArtifactOf(p)
	corePath := filepath.Join(t.platformDir(p), artifact.Filename)
	accounted[artifact.Filename] = true

	onDisk, err := t.FS.ReadFile(corePath)
	if err != nil {
		errs.Add("platform %s: cannot read core image: %v", p, err)
		return
	}

	withoutDebug, err := t.buildCore(p, srcDir, InstallOptions{})
	if err != nil {
		errs.Add("platform %s: cannot recompute core image: %v", p, err)
		return
	}
	if bytes.Equal(onDisk, withoutDebug) {
		return
	}

	withDebug, err := t.buildCore(p, srcDir, InstallOptions{DebugImage: "all"})
	if err != nil {
		errs.Add("platform %s: cannot recompute debug core image: %v", p, err)
		return
	}
	if bytes.Equal(onDisk, withDebug) {
		return
	}

	errs.Add("platform %s: core image does not match source (with or without debug)", p)
}

// flagRedundantFiles walks dir and reports every regular file not present
// in accounted as a redundant-file error.
func (t *Target) flagRedundantFiles(dir string, accounted map[string]bool, errs *grerrors.CompareSourceError) {
	files, err := codecutil.ListFilesRecursive(t.FS, dir)
	if err != nil {
		errs.Add("%s: cannot enumerate directory: %v", dir, err)
		return
	}
	for _, rel := range files {
		if !accounted[rel] {
			errs.Add("%s: redundant file %s not traceable to source", dir, rel)
		}
	}
}

// compareSharedTree enumerates locale/, fonts/, themes/ under <boot>/grub/
// and compares them against Source with the same byte-equal/redundant-file
// rules.
func (t *Target) compareSharedTree(src *source.Source, errs *grerrors.CompareSourceError) {
	if src.Supports(source.CapNLS) {
		locales, err := src.LocaleFiles()
		if err != nil {
			errs.Add("locale: %v", err)
		} else {
			t.compareFlatSet(filepath.Join(t.grubDir(), "locale"), locales, ".mo", "locale", errs)
		}
	}
	if src.Supports(source.CapFonts) {
		fonts, err := src.FontFiles()
		if err != nil {
			errs.Add("fonts: %v", err)
		} else {
			t.compareFlatSet(filepath.Join(t.grubDir(), "fonts"), fonts, ".pf2", "fonts", errs)
		}
	}
	if src.Supports(source.CapThemes) {
		themes, err := src.ThemeDirectories()
		if err != nil {
			errs.Add("themes: %v", err)
		} else {
			t.compareThemeSet(filepath.Join(t.grubDir(), "themes"), themes, errs)
		}
	}
}

func (t *Target) compareFlatSet(destRoot string, srcByName map[string]string, suffix, label string, errs *grerrors.CompareSourceError) {
	accounted := map[string]bool{}
	for name, srcPath := range srcByName {
		rel := name + suffix
		t.compareOneFile(label, srcPath, filepath.Join(destRoot, rel), rel, errs)
		accounted[rel] = true
	}
	t.flagRedundantFiles(destRoot, accounted, errs)
}

func (t *Target) compareThemeSet(destRoot string, srcByName map[string]string, errs *grerrors.CompareSourceError) {
	accounted := map[string]bool{}
	for name, srcDir := range srcByName {
		files, err := codecutil.ListFilesRecursive(t.FS, srcDir)
		if err != nil {
			errs.Add("theme %s: cannot enumerate source: %v", name, err)
			continue
		}
		for _, rel := range files {
			full := filepath.Join(name, rel)
			t.compareOneFile("theme "+name, filepath.Join(srcDir, rel), filepath.Join(destRoot, full), full, errs)
			accounted[filepath.ToSlash(full)] = true
		}
	}
	t.flagRedundantFiles(destRoot, accounted, errs)
}
