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
	"strings"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
)

const (
	envBlockSize      = 1024
	envBlockSignature = "# GRUB Environment Block\n"
	envBlockMessage   = "# WARNING: Do not edit this file by tools other than grub-editenv!!!\n"
)

func (t *Target) envFilePath() string { return filepath.Join(t.grubDir(), "grubenv") }

// TouchEnvFile creates <boot>/grub/grubenv: a fixed 1024-byte file with a
// two-line text header followed by '#' padding, never parsed by this
// system. Writes through a sibling temp name then renames into place so a
// reader never observes a partial file. Requires W or RW mode.
func (t *Target) TouchEnvFile() error {
	t.requireMode(ModeW)

	padding := envBlockSize - len(envBlockSignature) - len(envBlockMessage)
	if padding < 0 {
		panic("target: grubenv header text longer than the fixed block size")
	}
	content := envBlockSignature + envBlockMessage + strings.Repeat("#", padding)

	path := t.envFilePath()
	tmpPath := path + ".new"
	if err := t.FS.WriteFile(tmpPath, []byte(content), grubtypes.FilePerm); err != nil {
		return grerrors.NewInstallError("", "cannot write grubenv temp file", err)
	}
	if err := t.FS.Rename(tmpPath, path); err != nil {
		return grerrors.NewInstallError("", "cannot rename grubenv into place", err)
	}
	return nil
}

// RemoveEnvFile deletes <boot>/grub/grubenv, if present. Requires W or RW
// mode.
func (t *Target) RemoveEnvFile() error {
	t.requireMode(ModeW)
	if err := t.FS.Remove(t.envFilePath()); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return grerrors.NewInstallError("", "cannot remove grubenv", err)
	}
	return nil
}
