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

// install's PreRunE checks CheckRoot before validateTargetFlags, so these
// tests only assert that some error is returned for malformed invocations -
// the precise message depends on whether the test process happens to run as
// root, which this suite does not assume either way.
var _ = Describe("install", Label("cmd", "install"), func() {
	AfterEach(func() {
		viper.Reset()
	})

	It("errors out with no platform argument and no required flags set", func() {
		_, _, err := executeCommandC(rootCmd, "install")
		Expect(err).To(HaveOccurred())
	})

	It("registers the locale/font/theme/touch-env-file flags", func() {
		f := installCmd.Flags()
		Expect(f.Lookup("locale")).NotTo(BeNil())
		Expect(f.Lookup("font")).NotTo(BeNil())
		Expect(f.Lookup("theme")).NotTo(BeNil())
		Expect(f.Lookup("touch-env-file")).NotTo(BeNil())
	})
})
