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

package coreimage_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fpemud-os/grub-install/pkg/coreimage"
	"github.com/fpemud-os/grub-install/pkg/mocks"
)

func TestCoreimageSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Coreimage test suite")
}

// writeOutputSideEffect returns a FakeRunner.SideEffect that locates the
// "-o <path>" argument grub-mkimage was invoked with and drops fixed
// contents there, standing in for the real mkimage binary.
func writeOutputSideEffect(contents []byte) func(string, ...string) ([]byte, error) {
	return func(_ string, args ...string) ([]byte, error) {
		for i, a := range args {
			if a == "-o" && i+1 < len(args) {
				if err := os.WriteFile(args[i+1], contents, 0644); err != nil {
					return nil, err
				}
				return nil, nil
			}
		}
		return nil, fmt.Errorf("no -o flag found in args: %v", args)
	}
}

var _ = Describe("Build", Label("coreimage"), func() {
	It("invokes grub-mkimage with a scoped load.cfg and returns the produced bytes", func() {
		runner := mocks.NewFakeRunner()
		runner.SideEffect = writeOutputSideEffect([]byte("fake-core-image"))
		b := coreimage.Builder{Runner: runner}

		data, err := b.Build(coreimage.Input{
			PlatformSourceDir: "/lib/i386-pc",
			Modules:           []string{"biosdisk", "fat"},
			FSUUID:            "deadbeef",
			Hints:             "hd0,msdos1",
			Prefix:            "/grub",
			MkimageTarget:     "i386-pc",
			OutputFilename:    "core.img",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("fake-core-image")))

		Expect(runner.GetCmds()).To(HaveLen(1))
		cmd := runner.GetCmds()[0]
		Expect(cmd[0]).To(Equal("grub-mkimage"))
		Expect(strings.Join(cmd, " ")).To(ContainSubstring("-O i386-pc"))
		Expect(strings.Join(cmd, " ")).To(ContainSubstring("-d /lib/i386-pc"))
		Expect(cmd).To(ContainElement("biosdisk"))
		Expect(cmd).To(ContainElement("fat"))
	})

	It("uses a custom mkimage binary name when configured", func() {
		runner := mocks.NewFakeRunner()
		runner.SideEffect = writeOutputSideEffect([]byte("x"))
		b := coreimage.Builder{Runner: runner, MkimageBinary: "grub2-mkimage"}

		_, err := b.Build(coreimage.Input{MkimageTarget: "i386-pc", OutputFilename: "core.img"})
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.GetCmds()[0][0]).To(Equal("grub2-mkimage"))
	})

	It("wraps a non-zero mkimage failure", func() {
		runner := mocks.NewFakeRunner()
		runner.ReturnError = fmt.Errorf("mkimage: module not found")
		b := coreimage.Builder{Runner: runner}

		_, err := b.Build(coreimage.Input{MkimageTarget: "i386-pc", OutputFilename: "core.img"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("mkimage failed"))
	})

	It("fails when mkimage reports success but writes no output file", func() {
		runner := mocks.NewFakeRunner()
		b := coreimage.Builder{Runner: runner}

		_, err := b.Build(coreimage.Input{MkimageTarget: "i386-pc", OutputFilename: "core.img"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("load.cfg rendering (exercised indirectly through Build)", Label("coreimage"), func() {
	It("embeds a debug line only when DebugImage is set, and escapes single quotes in the prefix", func() {
		var capturedCfg string
		runner := mocks.NewFakeRunner()
		runner.SideEffect = func(_ string, args ...string) ([]byte, error) {
			for i, a := range args {
				if a == "-c" && i+1 < len(args) {
					data, err := os.ReadFile(args[i+1])
					if err != nil {
						return nil, err
					}
					capturedCfg = string(data)
				}
				if a == "-o" && i+1 < len(args) {
					if err := os.WriteFile(args[i+1], []byte("x"), 0644); err != nil {
						return nil, err
					}
				}
			}
			return nil, nil
		}
		b := coreimage.Builder{Runner: runner}

		_, err := b.Build(coreimage.Input{
			FSUUID:         "abcd",
			Prefix:         "/it's/grub",
			DebugImage:     "all",
			MkimageTarget:  "i386-pc",
			OutputFilename: "core.img",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(capturedCfg).To(ContainSubstring("set debug='all'\n"))
		Expect(capturedCfg).To(ContainSubstring("search.fs_uuid abcd root"))
		Expect(capturedCfg).To(ContainSubstring(`set prefix=($root)'/it'\''s/grub'` + "\n"))
	})

	It("omits the debug line when DebugImage is empty", func() {
		var capturedCfg string
		runner := mocks.NewFakeRunner()
		runner.SideEffect = func(_ string, args ...string) ([]byte, error) {
			for i, a := range args {
				if a == "-c" && i+1 < len(args) {
					data, _ := os.ReadFile(args[i+1])
					capturedCfg = string(data)
				}
				if a == "-o" && i+1 < len(args) {
					_ = os.WriteFile(args[i+1], []byte("x"), 0644)
				}
			}
			return nil, nil
		}
		b := coreimage.Builder{Runner: runner}

		_, err := b.Build(coreimage.Input{FSUUID: "abcd", Prefix: "/grub", MkimageTarget: "i386-pc", OutputFilename: "core.img"})
		Expect(err).NotTo(HaveOccurred())
		Expect(capturedCfg).NotTo(ContainSubstring("set debug="))
	})
})
