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

package bootsector_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fpemud-os/grub-install/pkg/bootsector"
)

func TestBootsectorSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bootsector test suite")
}

// rawCore builds a minimal valid core image: a zeroed prefix one sector
// long - comfortably covering the real no-reed-solomon-length/redundancy
// header fields at offsets 0x14/0x10, left at zero meaning "no unprotected
// prefix" - followed by some body bytes to protect.
func rawCore(bodyLen int) []byte {
	core := make([]byte, bootsector.SectorSize+bodyLen)
	for i := range core[bootsector.SectorSize:] {
		core[bootsector.SectorSize+i] = byte(i)
	}
	return core
}

var _ = Describe("InstallIntoMBR/InspectMBR round trip", Label("bootsector"), func() {
	var bootImg []byte
	var diskSector [bootsector.SectorSize]byte

	BeforeEach(func() {
		bootImg = make([]byte, bootsector.SectorSize)
		for i := range bootImg {
			bootImg[i] = byte(i % 7)
		}
		// Simulate a disk that already carries a BPB and a partition table
		// this install must preserve.
		for i := 0x03; i < 0x5a; i++ {
			diskSector[i] = 0xAA
		}
		for i := 0x1b8; i < 0x1fe; i++ {
			diskSector[i] = 0xBB
		}
	})

	It("rejects a boot.img that is not exactly one sector", func() {
		_, err := bootsector.InstallIntoMBR(diskSector, []byte{1, 2, 3}, bootsector.Options{}, rawCore(512), true, false)
		Expect(err).To(HaveOccurred())
	})

	It("preserves the BPB when requested and NOPs the drive check on a hard disk", func() {
		core := rawCore(1024)
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, bootsector.Options{BPB: true, RSCodes: false}, core, true, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(plan.Sector[0x03:0x5a]).To(Equal(diskSector[0x03:0x5a]))
		Expect(plan.Sector[0x66]).To(Equal(byte(0x90)))
		Expect(plan.Sector[0x67]).To(Equal(byte(0x90)))
		Expect(plan.Sector[0x1b8:0x1fe]).To(Equal(diskSector[0x1b8:0x1fe]))
		Expect(plan.Core).To(Equal(core))
	})

	It("leaves the drive check jump untouched when the floppy fallback is allowed", func() {
		core := rawCore(1024)
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, bootsector.Options{AllowFloppy: true}, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Sector[0x66]).To(Equal(bootImg[0x66]))
		Expect(plan.Sector[0x67]).To(Equal(bootImg[0x67]))
	})

	It("leaves the drive check jump untouched on floppy media even when AllowFloppy is false", func() {
		core := rawCore(1024)
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, bootsector.Options{AllowFloppy: false}, core, false, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Sector[0x66]).To(Equal(bootImg[0x66]))
		Expect(plan.Sector[0x67]).To(Equal(bootImg[0x67]))
	})

	It("round-trips through InspectMBR with no reed-solomon encoding", func() {
		core := rawCore(1024)
		opts := bootsector.Options{BPB: true, RSCodes: false}
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, opts, core, true, false)
		Expect(err).NotTo(HaveOccurred())

		post := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
		copy(post, plan.Core)

		res, err := bootsector.InspectMBR(plan.Sector, post, bootImg, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flaw).To(BeEmpty())
		Expect(res.BPB).To(BeTrue())
		Expect(res.RSCodes).To(BeFalse())
	})

	It("round-trips through InspectMBR with reed-solomon encoding", func() {
		core := rawCore(1024)
		opts := bootsector.Options{BPB: true, RSCodes: true}
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, opts, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(plan.Core)).To(BeNumerically(">", len(core)))

		post := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
		copy(post, plan.Core)

		res, err := bootsector.InspectMBR(plan.Sector, post, bootImg, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flaw).To(BeEmpty())
		Expect(res.RSCodes).To(BeTrue())
	})

	It("reports a flaw when the MBR record was tampered with", func() {
		core := rawCore(1024)
		opts := bootsector.Options{BPB: true}
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, opts, core, true, false)
		Expect(err).NotTo(HaveOccurred())

		post := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
		copy(post, plan.Core)

		tampered := plan.Sector
		tampered[0] ^= 0xFF

		res, err := bootsector.InspectMBR(tampered, post, bootImg, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flaw).To(ContainSubstring("invalid MBR record"))
	})

	It("reports a flaw when trailing gap bytes are not zero", func() {
		core := rawCore(1024)
		opts := bootsector.Options{BPB: true, RSCodes: false}
		plan, err := bootsector.InstallIntoMBR(diskSector, bootImg, opts, core, true, false)
		Expect(err).NotTo(HaveOccurred())

		post := make([]byte, bootsector.MaxCoreBufferSize-bootsector.SectorSize)
		copy(post, plan.Core)
		post[len(plan.Core)] = 0x01

		res, err := bootsector.InspectMBR(plan.Sector, post, bootImg, core, true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flaw).To(ContainSubstring("should be all zero"))
	})
})

var _ = Describe("RemovePlan", Label("bootsector"), func() {
	It("zeroes everything but the BPB, partition table and MBR signature", func() {
		var diskSector [bootsector.SectorSize]byte
		for i := 0x03; i < 0x5a; i++ {
			diskSector[i] = 0xAA
		}
		for i := 0x1b8; i < 0x1fe; i++ {
			diskSector[i] = 0xBB
		}
		diskSector[0] = 0xEB // boot code that must be wiped

		out := bootsector.RemovePlan(diskSector)
		Expect(out[0]).To(Equal(byte(0)))
		Expect(out[0x03:0x5a]).To(Equal(diskSector[0x03:0x5a]))
		Expect(out[0x1b8:0x1fe]).To(Equal(diskSector[0x1b8:0x1fe]))
		Expect(out[bootsector.SectorSize-2]).To(Equal(byte(0x55)))
		Expect(out[bootsector.SectorSize-1]).To(Equal(byte(0xAA)))
	})
})

var _ = Describe("EncodeCore", Label("bootsector", "reedsolomon"), func() {
	It("doubles the rounded-up sector count", func() {
		core := rawCore(100)
		encoded, err := bootsector.EncodeCore(core, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(encoded)).To(Equal(bootsector.SectorSize * 4))
	})

	It("is deterministic for the same input", func() {
		core := rawCore(700)
		a, err := bootsector.EncodeCore(core, false)
		Expect(err).NotTo(HaveOccurred())
		b, err := bootsector.EncodeCore(core, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("rejects the 0xFFFF version-mismatch sentinel", func() {
		// The no-reed-solomon-length field lives at offset 0x14 within
		// core.img itself, not 0x200+0x14 - core here has no boot-sector
		// prefix.
		core := rawCore(512)
		core[0x14] = 0xFF
		core[0x15] = 0xFF
		_, err := bootsector.EncodeCore(core, false)
		Expect(err).To(MatchError(bootsector.ErrCoreVersionMismatch))
	})
})
