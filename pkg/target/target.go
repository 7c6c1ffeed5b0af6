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

// Package target implements the central install/inspect/compare/remove
// state machine, spec.md §4.7 (C7). It orchestrates the platform registry
// (pkg/platform), the core-image builder (pkg/coreimage), the boot-sector
// codec (pkg/bootsector) and EFI placement (pkg/efiplacement) against a
// Source (pkg/source), grounded on the teacher's Grub.Install orchestration
// order (InstallEFI -> DoEFIEntries -> InstallConfig), generalized to this
// repo's state machine.
package target

import (
	"fmt"
	"path/filepath"

	"github.com/sanity-io/litter"

	"github.com/fpemud-os/grub-install/pkg/bootsector"
	"github.com/fpemud-os/grub-install/pkg/coreimage"
	"github.com/fpemud-os/grub-install/pkg/efiplacement"
	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/platform"
	"github.com/fpemud-os/grub-install/pkg/probe"
	"github.com/fpemud-os/grub-install/pkg/source"
)

// Kind is the three target kinds spec.md §3 enumerates.
type Kind int

const (
	KindMountedDisk Kind = iota
	KindISODirectory
	KindISOObject
)

// ErrISOObjectUnsupported is returned by New for KindISOObject: PyCdLib-style
// ISO-object targets are unimplemented stubs in the original source and
// remain out of scope for this core, per spec.md §9.
var ErrISOObjectUnsupported = fmt.Errorf("target: ISO-object kind is not implemented")

// AccessMode is a bitmask; R and W may be combined as RW.
type AccessMode int

const (
	ModeR  AccessMode = 1 << 0
	ModeW  AccessMode = 1 << 1
	ModeRW            = ModeR | ModeW
)

func (m AccessMode) has(bit AccessMode) bool { return m&bit != 0 }

// Status is the three-valued install status, spec.md §3.
type Status int

const (
	NotExist Status = iota
	Perfect
	WithFlaws
)

func (s Status) String() string {
	switch s {
	case NotExist:
		return "NotExist"
	case Perfect:
		return "Perfect"
	case WithFlaws:
		return "WithFlaws"
	}
	return "Unknown"
}

// PlatformInstallInfo is the tagged value spec.md §3 defines: NotExist,
// Perfect{flags}, or WithFlaws{reason}.
type PlatformInstallInfo struct {
	Status   Status
	Reason   string // set iff Status == WithFlaws
	PCFlags  *bootsector.Options
	EFIFlags *efiplacement.Flags
}

// InstallOptions are the per-call knobs install_platform accepts; the BPB/
// AllowFloppy/RSCodes fields only apply to i386-pc.
type InstallOptions struct {
	BPB         bool
	AllowFloppy bool
	RSCodes     bool
	DebugImage  string
}

// Target is the central state machine: kind, access mode, boot directory,
// optional disk device, optional mount-probe record, and the registry of
// installed platforms. See spec.md §3's Target invariant.
type Target struct {
	FS     grubtypes.FS
	Logger grubtypes.Logger
	Runner grubtypes.Runner

	Builder    coreimage.Builder
	BlockDevOpen func(path string, write bool) (grubtypes.BlockDevice, error)

	kind       Kind
	mode       AccessMode
	bootDir    string
	diskDevice string
	mount      probe.Result
	hardDisk   bool

	slots map[platform.Platform]*PlatformInstallInfo
}

// New constructs a Target. In R or RW mode the slot map is populated from
// what is on disk (attempting full validation per §4.5.3/§4.6 for each
// platform subdirectory found); in W mode it starts empty, per spec.md §3.
func New(fs grubtypes.FS, logger grubtypes.Logger, runner grubtypes.Runner, kind Kind, mode AccessMode, bootDir, diskDevice string, mount probe.Result, hardDisk bool) (*Target, error) {
	if kind == KindISOObject {
		return nil, ErrISOObjectUnsupported
	}

	t := &Target{
		FS:         fs,
		Logger:     logger,
		Runner:     runner,
		Builder:    coreimage.Builder{FS: fs, Runner: runner, Logger: logger},
		kind:       kind,
		mode:       mode,
		bootDir:    bootDir,
		diskDevice: diskDevice,
		mount:      mount,
		hardDisk:   hardDisk,
		slots:      map[platform.Platform]*PlatformInstallInfo{},
	}

	if mode.has(ModeR) {
		if err := t.loadFromDisk(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Target) grubDir() string { return filepath.Join(t.bootDir, "grub") }

func (t *Target) platformDir(p platform.Platform) string {
	return filepath.Join(t.grubDir(), string(p))
}

// loadFromDisk populates t.slots from <boot>/grub/<platform>/ subdirectories
// that parse as a known platform, attempting full validation for each.
func (t *Target) loadFromDisk() error {
	entries, err := t.FS.ReadDir(t.grubDir())
	if err != nil {
		// No grub directory at all is a legitimate "nothing installed yet"
		// state in R mode, not a construction error.
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, ok := platform.Known(e.Name())
		if !ok {
			continue
		}
		info := t.inspectPlatform(p)
		t.slots[p] = info
		if info.Status == WithFlaws && grubtypes.IsDebugLevel(t.Logger) {
			t.Logger.Debugf("platform %s has flaws: %s", p, litter.Sdump(info))
		}
	}
	return nil
}

// Platforms returns every platform whose slot is currently Perfect, per
// spec.md §8's invariant ("platforms on a Target equals the set of
// subdirectory names ... filtered to Perfect").
func (t *Target) Platforms() []platform.Platform {
	var out []platform.Platform
	for p, info := range t.slots {
		if info.Status == Perfect {
			out = append(out, p)
		}
	}
	return out
}

// GetPlatformInstallInfo requires R or RW mode.
func (t *Target) GetPlatformInstallInfo(p platform.Platform) PlatformInstallInfo {
	t.requireMode(ModeR)
	if info, ok := t.slots[p]; ok {
		return *info
	}
	return PlatformInstallInfo{Status: NotExist}
}

func (t *Target) requireMode(m AccessMode) {
	if !t.mode.has(m) {
		panic(fmt.Sprintf("target: operation requires mode %v, target opened with mode %v", m, t.mode))
	}
}

// sourceFor is a convenience so a nil *source.Source pointer can't slip
// through silently.
func sourceFor(src *source.Source) *source.Source {
	if src == nil {
		panic("target: nil source passed to an install/compare operation")
	}
	return src
}
