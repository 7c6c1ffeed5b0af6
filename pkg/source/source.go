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

// Package source provides a read-only view of a GRUB module tree: per
// platform module directories, locale/font/theme trees, and the capability
// bits that say which of those trees actually exist.
package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/platform"
)

// RequiredAddons is the fixed addon filename list every platform directory
// must contain.
var RequiredAddons = []string{
	"moddep.lst", "command.lst", "fs.lst", "partmap.lst", "parttool.lst",
	"video.lst", "crypto.lst", "terminal.lst", "modinfo.sh",
}

// OptionalAddons is copied/checked only if present.
var OptionalAddons = []string{"efiemu32.o", "efiemu64.o"}

const (
	defaultFont  = "unicode"
	defaultTheme = "starfield"
)

// Source is an immutable reference to a lib/share directory pair providing
// per-platform modules, locales, fonts and themes.
type Source struct {
	fs grubtypes.FS

	libRoot    string
	shareRoot  string
	platforms  map[platform.Platform]string // platform -> lib subdirectory
	hasNLS     bool
	hasFonts   bool
	hasThemes  bool
	localeRoot string
	fontRoot   string
	themeRoot  string
}

// New constructs a Source rooted at libRoot (containing one subdirectory per
// platform) and shareRoot (containing optional locale/, fonts/, themes/
// subdirectories). Every subdirectory name under libRoot must be a known
// platform identifier, or construction fails with SourceError, per spec.md
// §3's Source invariant.
func New(fs grubtypes.FS, libRoot, shareRoot string) (*Source, error) {
	entries, err := fs.ReadDir(libRoot)
	if err != nil {
		return nil, grerrors.NewSourceError(libRoot, "cannot read lib root", err)
	}

	platforms := map[platform.Platform]string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, ok := platform.Known(e.Name())
		if !ok {
			return nil, grerrors.NewSourceError(libRoot, fmt.Sprintf("unknown platform subdirectory %q", e.Name()), nil)
		}
		platforms[p] = filepath.Join(libRoot, e.Name())
	}

	s := &Source{
		fs:        fs,
		libRoot:   libRoot,
		shareRoot: shareRoot,
		platforms: platforms,
	}

	s.localeRoot = filepath.Join(shareRoot, "locale")
	if _, err := fs.Stat(s.localeRoot); err == nil {
		s.hasNLS = true
	}
	s.fontRoot = filepath.Join(shareRoot, "fonts")
	if _, err := fs.Stat(s.fontRoot); err == nil {
		s.hasFonts = true
	}
	s.themeRoot = filepath.Join(shareRoot, "themes")
	if _, err := fs.Stat(s.themeRoot); err == nil {
		s.hasThemes = true
	}

	return s, nil
}

// Capability names the three optional capability bits a Source may have.
type Capability int

const (
	CapNLS Capability = iota
	CapFonts
	CapThemes
)

// Supports reports whether the Source has the given capability. Never
// fails.
func (s *Source) Supports(c Capability) bool {
	switch c {
	case CapNLS:
		return s.hasNLS
	case CapFonts:
		return s.hasFonts
	case CapThemes:
		return s.hasThemes
	}
	return false
}

// PlatformDirectory returns the absolute path of platform p's module
// directory. Fails if p is not present in this Source.
func (s *Source) PlatformDirectory(p platform.Platform) (string, error) {
	dir, ok := s.platforms[p]
	if !ok {
		return "", grerrors.NewSourceError(s.libRoot, fmt.Sprintf("platform %q not present in source", p), nil)
	}
	return dir, nil
}

// TryPlatformDirectory is PlatformDirectory's non-failing variant: it
// returns ("", false) instead of an error when p is absent.
func (s *Source) TryPlatformDirectory(p platform.Platform) (string, bool) {
	dir, ok := s.platforms[p]
	return dir, ok
}

// Platforms lists every platform this Source provides modules for.
func (s *Source) Platforms() []platform.Platform {
	out := make([]platform.Platform, 0, len(s.platforms))
	for p := range s.platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LocaleFiles scans shareRoot/locale for **/LC_MESSAGES/grub.mo and returns
// a mapping from locale name to absolute path. Fails if !CapNLS.
func (s *Source) LocaleFiles() (map[string]string, error) {
	if !s.hasNLS {
		return nil, grerrors.NewSourceError(s.shareRoot, "source has no locale directory", nil)
	}
	entries, err := s.fs.ReadDir(s.localeRoot)
	if err != nil {
		return nil, grerrors.NewSourceError(s.localeRoot, "cannot read locale root", err)
	}
	out := map[string]string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		moPath := filepath.Join(s.localeRoot, e.Name(), "LC_MESSAGES", "grub.mo")
		if _, err := s.fs.Stat(moPath); err == nil {
			out[e.Name()] = moPath
		}
	}
	return out, nil
}

// LocaleFile returns the grub.mo path for a single locale. Fails if !CapNLS
// or the locale is absent.
func (s *Source) LocaleFile(locale string) (string, error) {
	files, err := s.LocaleFiles()
	if err != nil {
		return "", err
	}
	path, ok := files[locale]
	if !ok {
		return "", grerrors.NewSourceError(s.localeRoot, fmt.Sprintf("locale %q not present in source", locale), nil)
	}
	return path, nil
}

// FontFiles scans shareRoot/fonts for *.pf2 and returns a mapping from font
// name to absolute path. Fails if !CapFonts.
func (s *Source) FontFiles() (map[string]string, error) {
	if !s.hasFonts {
		return nil, grerrors.NewSourceError(s.shareRoot, "source has no fonts directory", nil)
	}
	entries, err := s.fs.ReadDir(s.fontRoot)
	if err != nil {
		return nil, grerrors.NewSourceError(s.fontRoot, "cannot read fonts root", err)
	}
	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pf2") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".pf2")
		out[name] = filepath.Join(s.fontRoot, e.Name())
	}
	return out, nil
}

// FontFile returns a single font's path. Fails if !CapFonts or absent.
func (s *Source) FontFile(name string) (string, error) {
	files, err := s.FontFiles()
	if err != nil {
		return "", err
	}
	path, ok := files[name]
	if !ok {
		return "", grerrors.NewSourceError(s.fontRoot, fmt.Sprintf("font %q not present in source", name), nil)
	}
	return path, nil
}

// DefaultFont returns the "unicode" font name.
func (s *Source) DefaultFont() string { return defaultFont }

// ThemeDirectories scans shareRoot/themes for one subdirectory per theme.
// Fails if !CapThemes.
func (s *Source) ThemeDirectories() (map[string]string, error) {
	if !s.hasThemes {
		return nil, grerrors.NewSourceError(s.shareRoot, "source has no themes directory", nil)
	}
	entries, err := s.fs.ReadDir(s.themeRoot)
	if err != nil {
		return nil, grerrors.NewSourceError(s.themeRoot, "cannot read themes root", err)
	}
	out := map[string]string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		out[e.Name()] = filepath.Join(s.themeRoot, e.Name())
	}
	return out, nil
}

// ThemeDirectory returns a single theme's directory. Fails if !CapThemes or
// absent.
func (s *Source) ThemeDirectory(name string) (string, error) {
	dirs, err := s.ThemeDirectories()
	if err != nil {
		return "", err
	}
	dir, ok := dirs[name]
	if !ok {
		return "", grerrors.NewSourceError(s.themeRoot, fmt.Sprintf("theme %q not present in source", name), nil)
	}
	return dir, nil
}

// DefaultTheme returns the "starfield" theme name.
func (s *Source) DefaultTheme() string { return defaultTheme }

// ModFiles lists the *.mod basenames present in platform p's module
// directory.
func (s *Source) ModFiles(p platform.Platform) ([]string, error) {
	dir, err := s.PlatformDirectory(p)
	if err != nil {
		return nil, err
	}
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, grerrors.NewSourceError(dir, "cannot read platform directory", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mod") {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// HasOptionalAddon reports whether optional addon filename is present in
// platform p's module directory.
func (s *Source) HasOptionalAddon(p platform.Platform, filename string) (bool, error) {
	dir, err := s.PlatformDirectory(p)
	if err != nil {
		return false, err
	}
	_, statErr := s.fs.Stat(filepath.Join(dir, filename))
	return statErr == nil, nil
}

// FS returns the underlying filesystem this Source reads through, so
// collaborating components (Target, datainstall) that share the same root
// filesystem can copy files out of the Source without a second handle.
func (s *Source) FS() grubtypes.FS { return s.fs }
