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

// Package coreimage renders the load.cfg preamble and invokes the external
// mkimage utility to produce a platform's core image, per spec.md §4.4.
package coreimage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
)

// Builder constructs core images by shelling out to mkimage in a scoped
// temporary directory, grounded on _handy.py's makeCoreImage.
type Builder struct {
	FS     grubtypes.FS
	Runner grubtypes.Runner
	Logger grubtypes.Logger

	// MkimageBinary defaults to "grub-mkimage" when empty.
	MkimageBinary string
	// TempDir is where the scoped temp directory is created; defaults to
	// os.TempDir() when empty.
	TempDir string
}

// Input collects every parameter the core image build needs.
type Input struct {
	PlatformSourceDir string   // source's per-platform module directory
	Modules           []string // ordered module list
	FSUUID            string
	Hints             string // may be empty
	Prefix            string // target-relative path of <boot>/grub/
	DebugImage        string // optional; "" means no debug line
	MkimageTarget     string
	OutputFilename    string // e.g. "core.img" - used only to name the temp output file
}

func (b Builder) binary() string {
	if b.MkimageBinary != "" {
		return b.MkimageBinary
	}
	return "grub-mkimage"
}

// escapeSingleQuotePrefix escapes prefix for embedding inside a single-quoted
// shell-like load.cfg token, per spec.md §4.4: each ' becomes '\''.
func escapeSingleQuotePrefix(prefix string) string {
	return strings.ReplaceAll(prefix, "'", `'\''`)
}

// renderLoadCfg builds the exact load.cfg text spec.md §4.4 specifies: an
// optional `set debug=` line, the search.fs_uuid line, and the set prefix
// line.
func renderLoadCfg(in Input) string {
	var b strings.Builder
	if in.DebugImage != "" {
		fmt.Fprintf(&b, "set debug='%s'\n", in.DebugImage)
	}
	fmt.Fprintf(&b, "search.fs_uuid %s root", in.FSUUID)
	if in.Hints != "" {
		fmt.Fprintf(&b, " %s", in.Hints)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "set prefix=($root)'%s'\n", escapeSingleQuotePrefix(in.Prefix))
	return b.String()
}

// Build renders load.cfg, invokes mkimage in a scoped temporary directory,
// and returns the produced core image's bytes. The temporary directory is
// removed on every exit path, including error, per the concurrency model's
// resource-scoping rule.
func (b Builder) Build(in Input) ([]byte, error) {
	tempRoot := b.TempDir
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	dir, err := os.MkdirTemp(tempRoot, "grub-mkimage-")
	if err != nil {
		return nil, grerrors.NewInstallError("", "cannot create scoped temp directory for mkimage", err)
	}
	defer os.RemoveAll(dir)

	cfgPath := filepath.Join(dir, "load.cfg")
	if err := os.WriteFile(cfgPath, []byte(renderLoadCfg(in)), 0644); err != nil {
		return nil, grerrors.NewInstallError("", "cannot write load.cfg", err)
	}

	outName := in.OutputFilename
	if outName == "" {
		outName = "core.out"
	}
	outPath := filepath.Join(dir, outName)

	args := []string{"-c", cfgPath, "-O", in.MkimageTarget, "-d", in.PlatformSourceDir, "-o", outPath}
	args = append(args, in.Modules...)

	if b.Logger != nil {
		b.Logger.Debugf("building core image: %s %s", b.binary(), strings.Join(args, " "))
	}

	if _, err := b.Runner.Run(b.binary(), args...); err != nil {
		return nil, grerrors.NewInstallError("", fmt.Sprintf("mkimage failed for target %q", in.MkimageTarget), err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, grerrors.NewInstallError("", "mkimage did not produce an output file", err)
	}
	if b.Logger != nil {
		b.Logger.Debugf("core image for %s: %s", in.MkimageTarget, units.BytesSize(float64(len(data))))
	}
	return data, nil
}
