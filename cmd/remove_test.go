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

// remove's PreRunE checks CheckRoot before validateTargetFlags, so these
// tests only assert that some error is returned - same caveat as install_test.go.
var _ = Describe("remove", Label("cmd", "remove"), func() {
	AfterEach(func() {
		viper.Reset()
	})

	It("errors out with no required flags set", func() {
		_, _, err := executeCommandC(rootCmd, "remove")
		Expect(err).To(HaveOccurred())
	})

	It("registers the --all and --remove-env-file flags", func() {
		f := removeCmd.Flags()
		Expect(f.Lookup("all")).NotTo(BeNil())
		Expect(f.Lookup("remove-env-file")).NotTo(BeNil())
	})
})
