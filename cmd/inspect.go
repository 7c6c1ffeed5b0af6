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

var inspectCmd = &cobra.Command{
	Use:   "inspect [PLATFORM...]",
	Short: "Print install status for one or more platforms, or every installed platform",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateTargetFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd)
		t, err := buildTarget(cmd, cfg, target.ModeR)
		if err != nil {
			return err
		}

		platforms := make([]platform.Platform, 0, len(args))
		for _, name := range args {
			p, ok := platform.Known(name)
			if !ok {
				return fmt.Errorf("unknown platform %q", name)
			}
			platforms = append(platforms, p)
		}
		if len(platforms) == 0 {
			platforms = t.Platforms()
		}

		for _, p := range platforms {
			info := t.GetPlatformInstallInfo(p)
			fmt.Printf("%s: %s\n", p, info.Status)
			if info.Status == target.WithFlaws {
				fmt.Printf("  reason: %s\n", info.Reason)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addTargetFlags(inspectCmd)
}
