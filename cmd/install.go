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

	"github.com/fpemud-os/grub-install/pkg/datainstall"
	"github.com/fpemud-os/grub-install/pkg/platform"
	"github.com/fpemud-os/grub-install/pkg/target"
)

var installCmd = &cobra.Command{
	Use:   "install PLATFORM...",
	Short: "Install one or more GRUB platforms onto a target",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := CheckRoot(); err != nil {
			return err
		}
		return validateTargetFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd)
		src, err := buildSource(cmd, cfg)
		if err != nil {
			return err
		}
		t, err := buildTarget(cmd, cfg, target.ModeRW)
		if err != nil {
			return err
		}

		opts := target.InstallOptions{
			BPB:         true,
			AllowFloppy: false,
			RSCodes:     true,
		}

		for _, name := range args {
			p, ok := platform.Known(name)
			if !ok {
				return fmt.Errorf("unknown platform %q", name)
			}
			if err := t.InstallPlatform(p, src, opts); err != nil {
				return err
			}
			cfg.Logger.Infof("installed platform %s", p)
		}

		locales, _ := cmd.Flags().GetStringSlice("locale")
		fonts, _ := cmd.Flags().GetStringSlice("font")
		themes, _ := cmd.Flags().GetStringSlice("theme")
		if len(locales) > 0 || len(fonts) > 0 || len(themes) > 0 {
			installer := datainstall.New(cfg.FS, cfg.Logger, mustBootDir(cmd))
			if err := installer.InstallData(src, nilIfEmpty(locales), nilIfEmpty(fonts), nilIfEmpty(themes)); err != nil {
				return err
			}
		}

		touchEnv, _ := cmd.Flags().GetBool("touch-env-file")
		if touchEnv {
			if err := t.TouchEnvFile(); err != nil {
				return err
			}
		}

		return nil
	},
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func mustBootDir(cmd *cobra.Command) string {
	bootDir, _ := cmd.Flags().GetString("boot-dir")
	return bootDir
}

func init() {
	rootCmd.AddCommand(installCmd)
	addTargetFlags(installCmd)
	addSourceFlags(installCmd)
	installCmd.Flags().StringSlice("locale", nil, "locale names to install, or \"*\" for all")
	installCmd.Flags().StringSlice("font", nil, "font names to install, or \"*\" for all")
	installCmd.Flags().StringSlice("theme", nil, "theme names to install, or \"*\" for all")
	installCmd.Flags().Bool("touch-env-file", false, "create grubenv if it does not already exist")
}
