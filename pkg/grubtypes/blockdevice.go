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

package grubtypes

import "os"

// BlockDevice abstracts a raw disk device so pkg/target's MBR reads and
// writes can be tested without touching real hardware; the boot-sector codec
// (pkg/bootsector) itself stays pure over byte buffers and never sees a
// BlockDevice.
type BlockDevice interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	Size() (int64, error)
	Close() error
}

// RealBlockDevice opens a path (a disk device node, or a plain file standing
// in for one in an ISO-directory target) in the requested mode.
type RealBlockDevice struct {
	f *os.File
}

// OpenBlockDevice opens path read-only (write=false) or read/write.
func OpenBlockDevice(path string, write bool) (*RealBlockDevice, error) {
	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	return &RealBlockDevice{f: f}, nil
}

func (d *RealBlockDevice) ReadAt(p []byte, off int64) (int, error) {
	return d.f.ReadAt(p, off)
}

func (d *RealBlockDevice) WriteAt(p []byte, off int64) (int, error) {
	return d.f.WriteAt(p, off)
}

func (d *RealBlockDevice) Size() (int64, error) {
	fi, err := d.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *RealBlockDevice) Close() error {
	return d.f.Close()
}
