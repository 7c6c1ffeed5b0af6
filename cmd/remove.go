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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpemud-os/grub-install/pkg/platform"
	"github.com/fpemud-os/grub-install/pkg/target"
)

var removeCmd = &cobra.Command{
	Use:   "remove [PLATFORM...]",
	Short: "Remove one or more installed platforms, or every platform with --all",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := CheckRoot(); err != nil {
			return err
		}
		return validateTargetFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd)
		t, err := buildTarget(cmd, cfg, target.ModeRW)
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		if all {
			if err := t.RemoveAll(); err != nil {
				return err
			}
			cfg.Logger.Infof("removed all platforms")
		} else {
			if len(args) == 0 {
				return fmt.Errorf("remove: specify at least one platform, or pass --all")
			}
			for _, name := range args {
				p, ok := platform.Known(name)
				if !ok {
					return fmt.Errorf("unknown platform %q", name)
				}
				if err := t.RemovePlatform(p); err != nil {
					return err
				}
				cfg.Logger.Infof("removed platform %s", p)
			}
		}

		removeEnv, _ := cmd.Flags().GetBool("remove-env-file")
		if removeEnv {
			if err := t.RemoveEnvFile(); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	addTargetFlags(removeCmd)
	removeCmd.Flags().Bool("all", false, "remove every installed platform")
	removeCmd.Flags().Bool("remove-env-file", false, "remove grubenv")
}
