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

package datainstall_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/vfst"

	"github.com/fpemud-os/grub-install/pkg/datainstall"
	"github.com/fpemud-os/grub-install/pkg/source"
)

func TestDatainstallSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Datainstall test suite")
}

func sourceFixture() map[string]interface{} {
	return map[string]interface{}{
		"/lib/i386-pc/moddep.lst":              "",
		"/share/locale/en/LC_MESSAGES/grub.mo": "english",
		"/share/locale/fr/LC_MESSAGES/grub.mo": "french",
		"/share/fonts/unicode.pf2":              "unicode-font",
		"/share/fonts/ascii.pf2":                 "ascii-font",
		"/share/themes/starfield/theme.txt":      "starfield-data",
	}
}

var _ = Describe("InstallLocales", Label("datainstall"), func() {
	It("copies every locale when the selector is All", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		Expect(installer.InstallLocales(src, []string{datainstall.All})).To(Succeed())

		Expect(fs.ReadFile("/boot/grub/locale/en.mo")).To(Equal([]byte("english")))
		Expect(fs.ReadFile("/boot/grub/locale/fr.mo")).To(Equal([]byte("french")))
	})

	It("copies only the named locales for an explicit selector", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		Expect(installer.InstallLocales(src, []string{"en"})).To(Succeed())

		Expect(fs.ReadFile("/boot/grub/locale/en.mo")).To(Equal([]byte("english")))
		_, err = fs.Stat("/boot/grub/locale/fr.mo")
		Expect(err).To(HaveOccurred())
	})

	It("fails for a locale not present in the source", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		err = installer.InstallLocales(src, []string{"ja"})
		Expect(err).To(HaveOccurred())
	})

	It("clears a stale destination directory before copying", func() {
		fixture := sourceFixture()
		fixture["/boot/grub/locale/stale.mo"] = "leftover"
		fs, cleanup, err := vfst.NewTestFS(fixture)
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		Expect(installer.InstallLocales(src, []string{"en"})).To(Succeed())

		_, err = fs.Stat("/boot/grub/locale/stale.mo")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InstallFonts", Label("datainstall"), func() {
	It("copies every font when the selector is All", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		Expect(installer.InstallFonts(src, []string{datainstall.All})).To(Succeed())

		Expect(fs.ReadFile("/boot/grub/fonts/unicode.pf2")).To(Equal([]byte("unicode-font")))
		Expect(fs.ReadFile("/boot/grub/fonts/ascii.pf2")).To(Equal([]byte("ascii-font")))
	})

	It("fails for a font not present in the source", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		err = installer.InstallFonts(src, []string{"nonexistent"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InstallThemes selector validation", Label("datainstall"), func() {
	It("fails before touching the filesystem for a theme not present in the source", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		err = installer.InstallThemes(src, []string{"nonexistent-theme"})
		Expect(err).To(HaveOccurred())

		_, statErr := fs.Stat("/boot/grub/themes")
		Expect(statErr).To(HaveOccurred())
	})
})

var _ = Describe("InstallData", Label("datainstall"), func() {
	It("skips a tree entirely when its selector is nil", func() {
		fs, cleanup, err := vfst.NewTestFS(sourceFixture())
		Expect(err).NotTo(HaveOccurred())
		defer cleanup()

		src, err := source.New(fs, "/lib", "/share")
		Expect(err).NotTo(HaveOccurred())

		installer := datainstall.New(fs, nil, "/boot")
		Expect(installer.InstallData(src, []string{"en"}, nil, nil)).To(Succeed())

		Expect(fs.ReadFile("/boot/grub/locale/en.mo")).To(Equal([]byte("english")))
		_, err = fs.Stat("/boot/grub/fonts")
		Expect(err).To(HaveOccurred())
		_, err = fs.Stat("/boot/grub/themes")
		Expect(err).To(HaveOccurred())
	})
})
