/*
Copyright © 2022 - 2025 SUSE LLC

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

import (
	"io/fs"
	"os"
)

// FS is the filesystem surface every component in this module depends on
// instead of talking to the os package directly. The real implementation is
// backed by github.com/twpayne/go-vfs; tests use vfst.TestFS.
type FS interface {
	Open(name string) (*os.File, error)
	Chmod(name string, mode os.FileMode) error
	Create(name string) (*os.File, error)
	Mkdir(name string, perm os.FileMode) error
	MkdirAll(name string, perm os.FileMode) error
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)
	RemoveAll(path string) error
	Remove(name string) error
	ReadFile(filename string) ([]byte, error)
	Readlink(name string) (string, error)
	RawPath(name string) (string, error)
	ReadDir(dirname string) ([]os.FileInfo, error)
	OpenFile(name string, flag int, perm fs.FileMode) (*os.File, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	Symlink(oldname, newname string) error
	Rename(oldpath, newpath string) error
}

const (
	// DirPerm is the permission bits used for every directory this module
	// creates under a boot directory.
	DirPerm os.FileMode = 0755
	// FilePerm is the permission bits used for every regular file this
	// module writes under a boot directory.
	FilePerm os.FileMode = 0644
)
