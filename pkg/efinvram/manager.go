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

package efinvram

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path"

	efi "github.com/canonical/go-efilib"
	efilinux "github.com/canonical/go-efilib/linux"

	"github.com/fpemud-os/grub-install/pkg/platform"
)

// maxEntries bounds the Boot#### namespace (four hex digits).
const maxEntries = 0x10000

// Entry is one registered boot menu entry for an installed removable EFI
// platform.
type Entry struct {
	Number     int
	Data       []byte
	Attributes efi.VariableAttributes
	LoadOption *efi.LoadOption
}

// Manager tracks the Boot#### variables and the BootOrder variable for one
// system, mirroring the teacher's pkg/efi.BootManager but scoped to this
// module's one job: give an installed removable EFI platform a named,
// ordered boot menu entry.
type Manager struct {
	vars      Variables
	entries   map[int]Entry
	bootOrder []int
	orderAttr efi.VariableAttributes
}

// NewManager loads the current Boot#### entries and BootOrder from vars.
func NewManager(vars Variables) (*Manager, error) {
	if !Supported(vars) {
		return nil, fmt.Errorf("efinvram: UEFI variable access is not available")
	}

	m := &Manager{vars: vars, entries: map[int]Entry{}}

	orderBytes, orderAttrs, err := vars.GetVariable(efi.GlobalVariable, "BootOrder")
	if err != nil {
		orderAttrs = efi.AttributeNonVolatile | efi.AttributeBootserviceAccess | efi.AttributeRuntimeAccess
	}
	m.orderAttr = orderAttrs
	for i := 0; i+1 < len(orderBytes); i += 2 {
		m.bootOrder = append(m.bootOrder, int(binary.LittleEndian.Uint16(orderBytes[i:i+2])))
	}

	descriptors, err := vars.ListVariables()
	if err != nil {
		return nil, fmt.Errorf("efinvram: cannot list UEFI variables: %w", err)
	}
	for _, d := range descriptors {
		if d.GUID != efi.GlobalVariable {
			continue
		}
		var number int
		if n, err := fmt.Sscanf(d.Name, "Boot%04X", &number); len(d.Name) != 8 || n != 1 || err != nil {
			continue
		}
		data, attrs, err := vars.GetVariable(efi.GlobalVariable, d.Name)
		if err != nil {
			continue
		}
		loadOption, err := efi.ReadLoadOption(bytes.NewReader(data))
		if err != nil {
			continue
		}
		m.entries[number] = Entry{Number: number, Data: data, Attributes: attrs, LoadOption: loadOption}
	}

	return m, nil
}

func (m *Manager) nextFreeNumber() (int, error) {
	for i := 0; i < maxEntries; i++ {
		if _, ok := m.entries[i]; !ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("efinvram: no free Boot#### slot")
}

// label returns the boot menu entry description for a GRUB removable-media
// install of p, e.g. "grub-install x86_64-efi".
func label(p platform.Platform) string {
	return "grub-install " + string(p)
}

// RegisterRemovablePlatform finds an existing boot entry pointing at p's
// removable EFI path, or creates one, returning its Boot#### number. espRoot
// is the absolute filesystem path of the ESP mount point (the directory
// device-path encoding is relative to); relPath is the EFI/BOOT/<file>.EFI
// path relative to espRoot.
func (m *Manager) RegisterRemovablePlatform(p platform.Platform, espRoot, relPath string) (int, error) {
	dp, err := m.vars.NewFileDevicePath(path.Join(espRoot, relPath), efilinux.ShortFormPathHD)
	if err != nil {
		return -1, fmt.Errorf("efinvram: cannot build device path for %s: %w", relPath, err)
	}

	loadOption := &efi.LoadOption{
		Attributes:  efi.LoadOptionActive,
		Description: label(p),
		FilePath:    dp,
	}
	data, err := loadOption.Bytes()
	if err != nil {
		return -1, fmt.Errorf("efinvram: cannot encode load option: %w", err)
	}
	attrs := efi.AttributeNonVolatile | efi.AttributeBootserviceAccess | efi.AttributeRuntimeAccess

	for _, existing := range m.entries {
		if bytes.Equal(existing.Data, data) && existing.Attributes == attrs {
			return existing.Number, nil
		}
	}

	number, err := m.nextFreeNumber()
	if err != nil {
		return -1, err
	}
	name := fmt.Sprintf("Boot%04X", number)
	if err := m.vars.SetVariable(efi.GlobalVariable, name, data, attrs); err != nil {
		return -1, fmt.Errorf("efinvram: cannot write %s: %w", name, err)
	}
	m.entries[number] = Entry{Number: number, Data: data, Attributes: attrs, LoadOption: loadOption}
	return number, nil
}

// PrependToBootOrder commits a BootOrder with number moved (or inserted) to
// the front, deduplicated against the existing order, per the teacher's
// PrependAndSetBootOrder.
func (m *Manager) PrependToBootOrder(number int) error {
	newOrder := []int{number}
	for _, n := range m.bootOrder {
		if n == number {
			continue
		}
		if _, ok := m.entries[n]; ok {
			newOrder = append(newOrder, n)
		}
	}

	encoded := make([]byte, 2*len(newOrder))
	for i, n := range newOrder {
		binary.LittleEndian.PutUint16(encoded[2*i:], uint16(n))
	}

	if err := m.vars.SetVariable(efi.GlobalVariable, "BootOrder", encoded, m.orderAttr); err != nil {
		return fmt.Errorf("efinvram: cannot write BootOrder: %w", err)
	}
	m.bootOrder = newOrder
	return nil
}

// RemoveEntry deletes number's Boot#### variable and drops it from
// BootOrder, used when a removable EFI platform is removed.
func (m *Manager) RemoveEntry(number int) error {
	entry, ok := m.entries[number]
	if !ok {
		return nil
	}
	name := fmt.Sprintf("Boot%04X", number)
	if err := m.vars.SetVariable(efi.GlobalVariable, name, nil, entry.Attributes); err != nil {
		return fmt.Errorf("efinvram: cannot remove %s: %w", name, err)
	}
	delete(m.entries, number)

	var newOrder []int
	for _, n := range m.bootOrder {
		if n != number {
			newOrder = append(newOrder, n)
		}
	}
	encoded := make([]byte, 2*len(newOrder))
	for i, n := range newOrder {
		binary.LittleEndian.PutUint16(encoded[2*i:], uint16(n))
	}
	if err := m.vars.SetVariable(efi.GlobalVariable, "BootOrder", encoded, m.orderAttr); err != nil {
		return fmt.Errorf("efinvram: cannot rewrite BootOrder: %w", err)
	}
	m.bootOrder = newOrder
	return nil
}
