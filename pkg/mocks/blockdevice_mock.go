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

package mocks

import (
	"io"

	"github.com/fpemud-os/grub-install/pkg/grubtypes"
)

var _ grubtypes.BlockDevice = (*FakeBlockDevice)(nil)

// FakeBlockDevice is a grubtypes.BlockDevice backed by an in-memory byte
// slice, so pkg/target's i386-pc install and remove paths can be tested
// without a real disk device node.
type FakeBlockDevice struct {
	Data   []byte
	Closed bool
}

// NewFakeBlockDevice returns a FakeBlockDevice of size bytes, all zero.
func NewFakeBlockDevice(size int) *FakeBlockDevice {
	return &FakeBlockDevice{Data: make([]byte, size)}
}

func (d *FakeBlockDevice) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(d.Data)) {
		return 0, io.EOF
	}
	n := copy(p, d.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (d *FakeBlockDevice) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(d.Data)) {
		grown := make([]byte, end)
		copy(grown, d.Data)
		d.Data = grown
	}
	return copy(d.Data[off:end], p), nil
}

func (d *FakeBlockDevice) Size() (int64, error) {
	return int64(len(d.Data)), nil
}

func (d *FakeBlockDevice) Close() error {
	d.Closed = true
	return nil
}
