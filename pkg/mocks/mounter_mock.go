/*
Copyright © 2022 - 2024 SUSE LLC

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

package mocks

import (
	"errors"

	mount "k8s.io/mount-utils"

	"github.com/fpemud-os/grub-install/pkg/probe"
)

var _ probe.Mounter = (*FakeMounter)(nil)

// FakeMounter is a probe.Mounter backed by an in-memory mount point list,
// for tests that need to fabricate /proc/mounts contents without a real
// mount namespace. Trimmed from the teacher's pkg/mocks.FakeMounter (which
// wrapped the full v2.Mounter mount/unmount surface) down to the one method
// pkg/probe actually depends on.
type FakeMounter struct {
	MountPoints []mount.MountPoint
	ErrorOnList bool
}

// NewFakeMounter returns a FakeMounter with no mounts registered.
func NewFakeMounter() *FakeMounter {
	return &FakeMounter{}
}

// List returns the fabricated mount points, or an error if ErrorOnList is
// set.
func (f *FakeMounter) List() ([]mount.MountPoint, error) {
	if f.ErrorOnList {
		return nil, errors.New("mount list error")
	}
	return f.MountPoints, nil
}
