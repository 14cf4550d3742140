package busmemory

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/sim"
)

var _ = Describe("Builder", func() {
	var engine *sim.SerialEngine

	BeforeEach(func() {
		engine = sim.NewSerialEngine(1 * sim.GHz)
	})

	It("should panic without an engine", func() {
		Expect(func() { MakeBuilder().Build("Memory") }).To(Panic())
	})

	It("should panic on an unsupported beat width", func() {
		Expect(func() {
			MakeBuilder().WithEngine(engine).WithBeatWidth(3).Build("Memory")
		}).To(Panic())
	})

	It("should panic on a storage of a different beat width", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithBeatWidth(8).
				WithStorage(mem.NewStorage(4, 16)).
				Build("Memory")
		}).To(Panic())
	})

	It("should expose the beat width", func() {
		m := MakeBuilder().WithEngine(engine).WithBeatWidth(16).Build("Memory")

		Expect(m.BeatWidth()).To(Equal(16))
		Expect(m.Ports()).To(HaveLen(1))
	})
})
