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

// Package codecutil provides the small byte-oriented and filesystem helpers
// every other component needs: byte-equal comparison, all-zero detection,
// safe directory create/clear, and relative-path helpers. Grounded on the
// teacher's pkg/utils/fs.go and the original _util.py's force_mkdir/
// rmdir_if_empty, with _util.py's force_mkdir(clear=...) bug (the clear
// parameter was declared but never read) fixed.
package codecutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpemud-os/grub-install/pkg/grubtypes"
)

// FilesEqual reports whether two files (read through fs) have identical
// bytes. A file that cannot be read on either side (a missing one included)
// is returned as an error, not reported as not-equal.
func FilesEqual(fs grubtypes.FS, a, b string) (bool, error) {
	da, err := fs.ReadFile(a)
	if err != nil {
		return false, err
	}
	db, err := fs.ReadFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(da, db), nil
}

// IsAllZero reports whether every byte of buf is zero.
func IsAllZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// ForceMkdir creates path (and its parents), optionally clearing any
// existing contents first. Unlike the original _util.py's force_mkdir,
// clear is actually honored here.
func ForceMkdir(fs grubtypes.FS, path string, clear bool) error {
	if clear {
		if err := fs.RemoveAll(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return fs.MkdirAll(path, grubtypes.DirPerm)
}

// RemoveDirIfEmpty removes path if it exists and has no entries. It is not
// an error for path to be missing or non-empty; it simply does nothing.
func RemoveDirIfEmpty(fs grubtypes.FS, path string) error {
	entries, err := fs.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	return fs.Remove(path)
}

// RelPath returns path relative to root using forward slashes, regardless
// of host OS path separator conventions - GRUB prefix strings are always
// slash-separated.
func RelPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// CopyFile copies src to dst through fs, creating dst's parent directory if
// needed.
func CopyFile(fs grubtypes.FS, src, dst string) error {
	data, err := fs.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(dst), grubtypes.DirPerm); err != nil {
		return err
	}
	return fs.WriteFile(dst, data, grubtypes.FilePerm)
}

// ListFilesRecursive returns every regular file under root, as paths
// relative to root (slash-separated), used by compare_source to detect
// redundant files not traceable to the Source.
func ListFilesRecursive(fs grubtypes.FS, root string) ([]string, error) {
	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			rel, err := RelPath(root, full)
			if err != nil {
				return err
			}
			out = append(out, rel)
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// Contains reports whether list contains s.
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TrimEachPrefix strips prefix from every element of list that has it.
func TrimEachPrefix(list []string, prefix string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = strings.TrimPrefix(v, prefix)
	}
	return out
}
