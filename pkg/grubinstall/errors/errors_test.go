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

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
)

func TestErrorsSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Errors test suite")
}

var _ = Describe("SourceError/TargetError/InstallError", Label("errors"), func() {
	It("wraps its cause so errors.Is/As still work", func() {
		cause := fmt.Errorf("permission denied")
		err := grerrors.NewSourceError("/some/path", "not readable", cause)
		Expect(err.Error()).To(ContainSubstring("/some/path"))
		Expect(err.Error()).To(ContainSubstring("not readable"))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("omits the cause clause when there is none", func() {
		err := grerrors.NewTargetError("/boot", "not mounted", nil)
		Expect(err.Error()).To(Equal(`invalid target "/boot": not mounted`))
	})

	It("names the platform in InstallError when given one", func() {
		err := grerrors.NewInstallError("i386-pc", "mkimage failed", nil)
		Expect(err.Error()).To(ContainSubstring(`platform "i386-pc"`))
	})

	It("omits the platform clause when none is given", func() {
		err := grerrors.NewInstallError("", "could not open boot.img", nil)
		Expect(err.Error()).NotTo(ContainSubstring("platform"))
	})

	It("unwraps to nil when there is no cause", func() {
		err := grerrors.NewInstallError("i386-pc", "boom", nil)
		Expect(err.Unwrap()).To(BeNil())
	})
})

var _ = Describe("CompareSourceError", Label("errors"), func() {
	It("reports no errors and a nil ErrorOrNil when nothing was added", func() {
		e := grerrors.NewCompareSourceError("x86_64-efi")
		Expect(e.HasErrors()).To(BeFalse())
		Expect(e.ErrorOrNil()).To(BeNil())
	})

	It("accumulates every mismatch added, instead of stopping at the first", func() {
		e := grerrors.NewCompareSourceError("x86_64-efi")
		e.Add("missing file %q", "core.efi").
			Add("byte mismatch in %q", "grub.efi").
			Add("redundant file %q", "extra.mod")

		Expect(e.HasErrors()).To(BeTrue())
		Expect(e.Mismatches()).To(HaveLen(3))

		err := e.ErrorOrNil()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`platform "x86_64-efi"`))
		Expect(err.Error()).To(ContainSubstring("core.efi"))
		Expect(err.Error()).To(ContainSubstring("grub.efi"))
		Expect(err.Error()).To(ContainSubstring("extra.mod"))
	})

	It("omits the platform clause when constructed with an empty platform", func() {
		e := grerrors.NewCompareSourceError("")
		e.Add("some mismatch")
		Expect(e.Error()).NotTo(ContainSubstring("platform"))
	})

	It("is usable as a standard error through errors.As", func() {
		e := grerrors.NewCompareSourceError("i386-pc")
		e.Add("one mismatch")
		var target *grerrors.CompareSourceError
		var asErr error = e
		Expect(errors.As(asErr, &target)).To(BeTrue())
		Expect(target.Mismatches()).To(HaveLen(1))
	})
})
