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
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"
)

// executeCommandC runs cmd with args and captures whatever it prints to
// os.Stdout, grounded on the teacher's cmd/command_test.go helper of the
// same name.
func executeCommandC(cmd *cobra.Command, args ...string) (c *cobra.Command, output string, err error) {
	cmd.SetArgs(args)
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	c, err = cmd.ExecuteC()
	if err != nil {
		os.Stdout = oldStdout
		return nil, "", err
	}
	if cerr := w.Close(); cerr != nil {
		os.Stdout = oldStdout
		return nil, "", cerr
	}
	out, _ := ioutil.ReadAll(r)
	os.Stdout = oldStdout
	return c, string(out), nil
}
