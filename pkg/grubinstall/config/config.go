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

// Package config assembles the collaborators every other package takes as
// constructor arguments (FS, Logger, Runner, Mounter, HintProber) behind one
// functional-options constructor, grounded on the teacher's
// pkg/config.NewConfig. Reduced to the handful of dependencies this module
// actually has - no cloud-init runner, OCI image extractor or HTTP client,
// none of which a bootloader installer needs.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"github.com/twpayne/go-vfs"
	"gopkg.in/yaml.v3"

	"github.com/fpemud-os/grub-install/pkg/grubtypes"
	"github.com/fpemud-os/grub-install/pkg/probe"
)

// Config bundles every collaborator pkg/target and its siblings need, built
// once at process start and threaded through explicitly from there - this
// module has no global state.
type Config struct {
	FS             grubtypes.FS
	Logger         grubtypes.Logger
	Runner         grubtypes.Runner
	Mounter        probe.Mounter
	HintProber     probe.HintProber
	DiskEnumerator probe.DiskEnumerator

	// Arch is the target architecture used to pick removable-EFI binary
	// names (pkg/platform.RemovableEFIName) when none is forced by a
	// caller; defaults to runtime.GOARCH, mirroring the teacher's
	// v1.NewPlatformFromArch(runtime.GOARCH) default.
	Arch string
}

// Option mutates a Config during construction, per the teacher's
// GenericOptions pattern.
type Option func(c *Config)

func WithFS(fs grubtypes.FS) Option {
	return func(c *Config) { c.FS = fs }
}

func WithLogger(logger grubtypes.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func WithRunner(runner grubtypes.Runner) Option {
	return func(c *Config) { c.Runner = runner }
}

func WithMounter(mounter probe.Mounter) Option {
	return func(c *Config) { c.Mounter = mounter }
}

func WithHintProber(prober probe.HintProber) Option {
	return func(c *Config) { c.HintProber = prober }
}

func WithDiskEnumerator(enumerator probe.DiskEnumerator) Option {
	return func(c *Config) { c.DiskEnumerator = enumerator }
}

func WithArch(arch string) Option {
	return func(c *Config) { c.Arch = arch }
}

// FileDefaults holds the settings an operator can put in config.yaml under
// a config directory. LoadDefaults reads all three fields, but
// WithFileDefaults applies only Arch; the CLI takes the boot directory and
// disk from its flags alone. Grounded
// on the teacher's pkg/utils.ReadConfigRun, reduced to the handful of
// settings this module has.
type FileDefaults struct {
	BootDir string `yaml:"boot-dir" mapstructure:"boot-dir"`
	Disk    string `yaml:"disk" mapstructure:"disk"`
	Arch    string `yaml:"arch" mapstructure:"arch"`
}

// LoadDefaults reads config.yaml from configDir, if present, then overlays
// GRUB_INSTALL_* environment variables - the same "file then env, file
// optional" idiom as ReadConfigRun. A missing file is not an error.
func LoadDefaults(configDir string) (FileDefaults, error) {
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigType("yaml")
	v.SetConfigName("config.yaml")
	_ = v.ReadInConfig()

	v.SetEnvPrefix("GRUB_INSTALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	var d FileDefaults
	if err := v.Unmarshal(&d); err != nil {
		return FileDefaults{}, err
	}
	return d, nil
}

// WithFileDefaults applies d.Arch when it is set, letting callers layer
// config.yaml under explicit flag-derived Options. d.BootDir and d.Disk are
// not applied.
func WithFileDefaults(d FileDefaults) Option {
	return func(c *Config) {
		if d.Arch != "" {
			c.Arch = d.Arch
		}
	}
}

// Dump renders these file defaults as YAML, for --debug
// diagnostics - grounded on cmd/state.go's yaml.Marshal(state).
func (d FileDefaults) Dump() (string, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// New builds a Config with real-world defaults (OS filesystem, stderr
// logger, os/exec runner, /proc/mounts mounter, grub-probe hint prober),
// then applies opts over them - the same "defaults first, options override"
// shape as the teacher's NewConfig.
func New(opts ...Option) *Config {
	logger := grubtypes.NewLogger()

	c := &Config{
		FS:     vfs.OSFS,
		Logger: logger,
		Arch:   runtime.GOARCH,
	}

	for _, o := range opts {
		o(c)
	}

	// Delay Runner/Mounter/HintProber creation until after options run, so
	// WithLogger (if passed) ends up wired into whichever one New created,
	// matching the teacher's delayed-runner-creation comment in
	// pkg/config.NewConfig.
	if c.Runner == nil {
		c.Runner = &grubtypes.RealRunner{Logger: c.Logger}
	}
	if c.Runner.GetLogger() == nil {
		c.Runner.SetLogger(c.Logger)
	}
	if c.Mounter == nil {
		c.Mounter = probe.RealMounter{}
	}
	if c.HintProber == nil {
		c.HintProber = probe.RunnerHintProber{Runner: c.Runner}
	}
	if c.DiskEnumerator == nil {
		c.DiskEnumerator = probe.RealDiskEnumerator{}
	}

	return c
}
