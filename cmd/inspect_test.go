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

package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

var _ = Describe("inspect", Label("cmd", "inspect"), func() {
	AfterEach(func() {
		viper.Reset()
	})

	It("errors out when --boot-dir is not set", func() {
		_, _, err := executeCommandC(rootCmd, "inspect")
		Expect(err).To(HaveOccurred())
	})

	It("rejects --disk combined with --iso-directory before touching a target", func() {
		_, _, err := executeCommandC(
			rootCmd, "inspect", "--boot-dir", "/tmp/grub-install-test-boot", "--iso-directory", "--disk", "/dev/sda",
		)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("--disk cannot be combined with --iso-directory"))
	})

	It("rejects an unknown platform name argument after validation", func() {
		_, _, err := executeCommandC(
			rootCmd, "inspect", "--boot-dir", "/tmp/grub-install-test-boot-nonexistent", "not-a-real-platform",
		)
		Expect(err).To(HaveOccurred())
	})
})
