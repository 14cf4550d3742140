package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should convert time to cycles", func() {
		var f = 1 * GHz
		Expect(f.Cycle(0.000000031)).To(Equal(uint64(31)))
	})

	It("should convert cycles to time", func() {
		var f = 1 * GHz
		Expect(f.CyclesToTime(17)).To(BeNumerically("~", 0.000000017, 1e-15))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 0.000000001)).To(
			BeNumerically("~", 0.000000013, 1e-15))
	})
})
