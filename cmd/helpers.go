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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	grconfig "github.com/fpemud-os/grub-install/pkg/grubinstall/config"
	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/probe"
	"github.com/fpemud-os/grub-install/pkg/source"
	"github.com/fpemud-os/grub-install/pkg/target"
)

// CheckRoot is a helper to return on PreRunE, so we can add it to commands
// that require root, grounded on the teacher's cmd/helpers.go.
func CheckRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("this command requires root privileges")
	}
	return nil
}

// addTargetFlags registers the flags every install/inspect/compare/remove
// subcommand shares: where the boot directory and backing disk device live.
func addTargetFlags(c *cobra.Command) {
	c.Flags().String("boot-dir", "", "boot directory containing (or to contain) grub/")
	c.Flags().String("disk", "", "backing block device (e.g. /dev/sda) for BIOS/i386-pc installs")
	c.Flags().Bool("iso-directory", false, "treat boot-dir as an ISO staging directory rather than a mounted disk")
	c.Flags().Bool("hard-disk", true, "target is a hard disk rather than floppy media (controls the drive-check NOP patch)")
	_ = c.MarkFlagRequired("boot-dir")
	_ = viper.BindPFlags(c.Flags())
}

// addSourceFlags registers the flags that locate a Source tree.
func addSourceFlags(c *cobra.Command) {
	c.Flags().String("source-lib", "", "source lib root (one subdirectory per platform)")
	c.Flags().String("source-share", "", "source share root (locale/fonts/themes)")
	_ = c.MarkFlagRequired("source-lib")
	_ = viper.BindPFlags(c.Flags())
}

// validateTargetFlags rejects the one combination addTargetFlags cannot
// express with flag metadata alone: --disk only makes sense against a
// mounted disk, not an ISO staging directory. Grounded on the teacher's
// cmd/flags.go validate*Flags helpers, which take the raw *pflag.FlagSet
// rather than a *cobra.Command so they can run before a Config exists.
func validateTargetFlags(flags *pflag.FlagSet) error {
	isoDir, _ := flags.GetBool("iso-directory")
	disk, _ := flags.GetString("disk")
	if isoDir && disk != "" {
		return fmt.Errorf("--disk cannot be combined with --iso-directory")
	}
	return nil
}

// buildConfig assembles a grconfig.Config from config.yaml (if present under
// --config-dir), then applies --debug to its logger. --quiet is not read.
func buildConfig(cmd *cobra.Command) *grconfig.Config {
	configDir, _ := cmd.Flags().GetString("config-dir")
	defaults, _ := grconfig.LoadDefaults(configDir)

	cfg := grconfig.New(grconfig.WithFileDefaults(defaults))
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logger.SetLevel(grubtypes.DebugLevel())
	}
	return cfg
}

// buildSource opens the Source tree named by --source-lib/--source-share.
func buildSource(cmd *cobra.Command, cfg *grconfig.Config) (*source.Source, error) {
	libRoot, _ := cmd.Flags().GetString("source-lib")
	shareRoot, _ := cmd.Flags().GetString("source-share")
	return source.New(cfg.FS, libRoot, shareRoot)
}

// buildTarget opens the Target named by --boot-dir/--disk/--iso-directory in
// the given access mode, probing the boot directory's mount first.
func buildTarget(cmd *cobra.Command, cfg *grconfig.Config, mode target.AccessMode) (*target.Target, error) {
	bootDir, _ := cmd.Flags().GetString("boot-dir")
	diskDevice, _ := cmd.Flags().GetString("disk")
	isoDir, _ := cmd.Flags().GetBool("iso-directory")
	hardDisk, _ := cmd.Flags().GetBool("hard-disk")

	kind := target.KindMountedDisk
	if isoDir {
		kind = target.KindISODirectory
	}

	mountResult := probe.Probe(cfg.Mounter, cfg.HintProber, cfg.DiskEnumerator, bootDir)
	if diskDevice == "" {
		diskDevice = mountResult.ContainingDisk
	}

	return target.New(cfg.FS, cfg.Logger, cfg.Runner, kind, mode, bootDir, diskDevice, mountResult, hardDisk)
}
