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
	efi "github.com/canonical/go-efilib"
	efilinux "github.com/canonical/go-efilib/linux"
)

type mockVariable struct {
	data  []byte
	attrs efi.VariableAttributes
}

// MockVariables is an in-memory Variables implementation for tests,
// grounded on the teacher's pkg/efi.MockEFIVariables.
type MockVariables struct {
	store map[efi.VariableDescriptor]mockVariable
}

func NewMockVariables() *MockVariables {
	return &MockVariables{store: map[efi.VariableDescriptor]mockVariable{}}
}

func (m *MockVariables) ListVariables() ([]efi.VariableDescriptor, error) {
	out := make([]efi.VariableDescriptor, 0, len(m.store))
	for k := range m.store {
		out = append(out, k)
	}
	return out, nil
}

func (m *MockVariables) GetVariable(guid efi.GUID, name string) ([]byte, efi.VariableAttributes, error) {
	v, ok := m.store[efi.VariableDescriptor{Name: name, GUID: guid}]
	if !ok {
		return nil, 0, efi.ErrVarNotExist
	}
	return v.data, v.attrs, nil
}

func (m *MockVariables) SetVariable(guid efi.GUID, name string, data []byte, attrs efi.VariableAttributes) error {
	key := efi.VariableDescriptor{Name: name, GUID: guid}
	if len(data) == 0 {
		delete(m.store, key)
		return nil
	}
	m.store[key] = mockVariable{data: data, attrs: attrs}
	return nil
}

// NewFileDevicePath builds a minimal single-node file device path from a
// path relative to the ESP root, without requiring a real partition-HD
// device path lookup - sufficient for exercising Manager in tests.
func (m *MockVariables) NewFileDevicePath(filepath string, _ efilinux.FileDevicePathMode) (efi.DevicePath, error) {
	return efi.DevicePath{efi.NewFilePathDevicePathNode(filepath)}, nil
}
