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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	grerrors "github.com/fpemud-os/grub-install/pkg/grubinstall/errors"
	"github.com/fpemud-os/grub-install/pkg/target"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare an installed target against a source tree, reporting every mismatch",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateTargetFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd)
		src, err := buildSource(cmd, cfg)
		if err != nil {
			return err
		}
		t, err := buildTarget(cmd, cfg, target.ModeR)
		if err != nil {
			return err
		}

		err = t.CompareSource(src)
		if err == nil {
			fmt.Println("target matches source")
			return nil
		}

		var cse *grerrors.CompareSourceError
		if errors.As(err, &cse) {
			for _, m := range cse.Mismatches() {
				fmt.Println(m)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addTargetFlags(compareCmd)
	addSourceFlags(compareCmd)
}
