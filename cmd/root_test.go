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
)

var _ = Describe("NewRootCmd", Label("cmd", "root"), func() {
	It("registers the shared persistent flags with their defaults", func() {
		c := NewRootCmd()

		debug, err := c.PersistentFlags().GetBool("debug")
		Expect(err).NotTo(HaveOccurred())
		Expect(debug).To(BeFalse())

		quiet, err := c.PersistentFlags().GetBool("quiet")
		Expect(err).NotTo(HaveOccurred())
		Expect(quiet).To(BeFalse())

		configDir, err := c.PersistentFlags().GetString("config-dir")
		Expect(err).NotTo(HaveOccurred())
		Expect(configDir).To(Equal("/etc/grub-install"))
	})

	It("carries the install, inspect, compare, remove and version subcommands", func() {
		names := []string{}
		for _, c := range rootCmd.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ContainElements("install", "inspect", "compare", "remove", "version"))
	})
})
