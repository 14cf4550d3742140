package accel

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roccaes/driver"
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/mem/busmemory"
	"github.com/sarchlab/roccaes/oracle"
	"github.com/sarchlab/roccaes/rocc"
	"github.com/sarchlab/roccaes/sim"
)

type bench struct {
	engine  *sim.SerialEngine
	memory  *busmemory.Comp
	accel   *Comp
	driver  *driver.Driver
	monitor *driver.Monitor
}

func newBench(beatWidth int, fault Fault) *bench {
	b := &bench{}
	b.engine = sim.NewSerialEngine(1 * sim.GHz)
	b.driver = driver.NewDriver("Driver", b.engine)
	b.accel = MakeBuilder().
		WithEngine(b.engine).
		WithBeatWidth(beatWidth).
		WithFault(fault).
		Build("Accel")
	b.memory = busmemory.MakeBuilder().
		WithEngine(b.engine).
		WithBeatWidth(beatWidth).
		WithCapacity(1024).
		Build("Memory")
	b.monitor = driver.NewMonitor("Monitor", b.engine, 4)

	cmdConn := sim.NewDirectConnection("CmdConn", b.engine)
	cmdConn.PlugIn(b.driver.GetPortByName("Cmd"))
	cmdConn.PlugIn(b.accel.GetPortByName("Cmd"))
	b.driver.SetDestination(b.accel.GetPortByName("Cmd"))

	respConn := sim.NewDirectConnection("RespConn", b.engine)
	respConn.PlugIn(b.accel.GetPortByName("Resp"))
	respConn.PlugIn(b.monitor.GetPortByName("Resp"))
	b.accel.SetResponseDestination(b.monitor.GetPortByName("Resp"))

	memConn := sim.NewDirectConnection("MemConn", b.engine)
	memConn.PlugIn(b.accel.GetPortByName("Mem"))
	memConn.PlugIn(b.memory.GetPortByName("Top"))
	b.accel.SetMemory(b.memory.GetPortByName("Top"))

	return b
}

func (b *bench) push(cmds ...rocc.Command) {
	for _, c := range cmds {
		b.driver.Push(rocc.Encode(c))
	}
}

func (b *bench) preload(base uint64, data []byte) {
	words := mem.LayoutWords(base, data, b.accel.BeatWidth())
	Expect(b.memory.PreloadAll(words)).To(Succeed())
}

func (b *bench) readBlocks(base uint64, n int) []byte {
	wordsPerBlock := mem.WordsPerBlock(b.accel.BeatWidth())
	words := make([][]byte, n*wordsPerBlock)

	for i := range words {
		w, err := b.memory.ReadWord(base + uint64(i))
		Expect(err).NotTo(HaveOccurred())
		words[i] = w
	}

	return mem.WordsToBytes(words)
}

func (b *bench) runUntilIdle() {
	_, err := b.engine.TickUntil(func() bool {
		return b.driver.Idle() && !b.accel.Busy() && b.accel.Idle()
	}, 5000)
	Expect(err).NotTo(HaveOccurred())
}

func pattern(seed byte, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = seed + byte(i*13)
	}

	return data
}

const (
	keyAddr = 0
	srcAddr = 64
	dstAddr = 256
)

var _ = Describe("Comp", func() {
	for _, bw := range []int{4, 8, 16} {
		beatWidth := bw

		It(fmt.Sprintf("should encrypt and decrypt through %d-byte beats", beatWidth), func() {
			b := newBench(beatWidth, FaultNone)
			key := pattern(1, mem.KeyRegionBytes)
			source := pattern(7, 3*mem.BlockBytes)
			b.preload(keyAddr, key)
			b.preload(srcAddr, source)

			b.push(
				rocc.KeyLoad{KeySizeBits: 256, KeyAddr: keyAddr},
				rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
				rocc.CipherBlock{Direction: rocc.Encrypt, BlockCount: 3},
			)
			b.runUntilIdle()

			want := oracle.Expected(256, key, source, rocc.Encrypt)
			Expect(b.readBlocks(dstAddr, 3)).To(Equal(want))

			b.push(
				rocc.AddrLoad{SrcAddr: dstAddr, DstAddr: srcAddr + 128},
				rocc.CipherBlock{Direction: rocc.Decrypt, BlockCount: 3},
			)
			b.runUntilIdle()

			Expect(b.readBlocks(srcAddr+128, 3)).To(Equal(source))
		})
	}

	It("should only use the key bits of the loaded size", func() {
		b := newBench(4, FaultNone)
		key := pattern(3, mem.KeyRegionBytes)
		source := pattern(9, mem.BlockBytes)
		b.preload(keyAddr, key)
		b.preload(srcAddr, source)

		b.push(
			rocc.KeyLoad{KeySizeBits: 128, KeyAddr: keyAddr},
			rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
			rocc.CipherBlock{Direction: rocc.Encrypt, BlockCount: 1},
		)
		b.runUntilIdle()

		Expect(b.readBlocks(dstAddr, 1)).
			To(Equal(oracle.Encrypt(128, key, source)))
	})

	It("should answer polls with busy while working", func() {
		b := newBench(4, FaultNone)

		b.push(
			rocc.KeyLoad{KeySizeBits: 128, KeyAddr: keyAddr},
			rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
			rocc.CipherBlock{Direction: rocc.Encrypt, BlockCount: 2},
			rocc.StatusPoll{},
			rocc.StatusPoll{},
		)
		b.runUntilIdle()
		b.push(rocc.StatusPoll{})
		b.engine.TickN(5)

		Expect(b.monitor.Drain()).To(Equal([]rocc.Response{
			{Status: 1}, {Status: 1}, {Status: 0},
		}))
	})

	It("should pulse the interrupt for one cycle before dropping busy", func() {
		b := newBench(4, FaultNone)

		b.push(
			rocc.KeyLoad{KeySizeBits: 128, KeyAddr: keyAddr},
			rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
			rocc.CipherBlock{
				Direction:       rocc.Encrypt,
				BlockCount:      1,
				InterruptEnable: true,
			},
		)

		_, err := b.engine.TickUntil(b.accel.Interrupt, 5000)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.accel.Busy()).To(BeTrue())
		Expect(b.memory.FinishedWriting(dstAddr, 1, make([]byte, 16))).
			To(BeTrue())

		b.engine.Tick()
		Expect(b.accel.Interrupt()).To(BeFalse())
		Expect(b.accel.Busy()).To(BeFalse())
	})

	It("should not raise the interrupt when disabled", func() {
		b := newBench(4, FaultNone)

		b.push(
			rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
			rocc.CipherBlock{Direction: rocc.Encrypt, BlockCount: 1},
		)

		raised := false
		for i := 0; i < 200; i++ {
			b.engine.Tick()
			raised = raised || b.accel.Interrupt()
		}

		Expect(raised).To(BeFalse())
	})

	It("should hold other commands while busy", func() {
		b := newBench(4, FaultNone)

		b.push(
			rocc.KeyLoad{KeySizeBits: 256, KeyAddr: keyAddr},
			rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
		)
		b.engine.TickN(3)

		Expect(b.accel.Busy()).To(BeTrue())
		Expect(b.driver.Pending()).To(Equal(0))
		Expect(b.accel.GetPortByName("Cmd").IncomingBuffer().Size()).
			To(Equal(1))
	})

	It("should drop commands that cannot be decoded", func() {
		b := newBench(4, FaultNone)

		msg := rocc.Encode(rocc.StatusPoll{})
		msg.Inst = 0
		b.driver.Push(msg)
		b.engine.TickN(3)

		Expect(b.accel.BadCommands()).To(Equal(1))
		Expect(b.monitor.Len()).To(Equal(0))
	})

	Context("with faults", func() {
		run := func(fault Fault) *bench {
			b := newBench(4, fault)
			b.preload(keyAddr, pattern(1, mem.KeyRegionBytes))
			b.preload(srcAddr, pattern(2, 2*mem.BlockBytes))
			b.memory.GuardWrites(dstAddr, 8)

			b.push(
				rocc.KeyLoad{KeySizeBits: 128, KeyAddr: keyAddr},
				rocc.AddrLoad{SrcAddr: srcAddr, DstAddr: dstAddr},
				rocc.CipherBlock{
					Direction:       rocc.Encrypt,
					BlockCount:      2,
					InterruptEnable: true,
				},
			)

			return b
		}

		It("should skip the writes with FaultNoOp", func() {
			b := run(FaultNoOp)
			b.runUntilIdle()

			Expect(b.readBlocks(dstAddr, 2)).To(Equal(make([]byte, 32)))
		})

		It("should never raise busy with FaultPrematureIdle", func() {
			b := run(FaultPrematureIdle)

			for i := 0; i < 200; i++ {
				b.engine.Tick()
				Expect(b.accel.Busy()).To(BeFalse())
			}
		})

		It("should write outside the destination with FaultStrayWrite", func() {
			b := run(FaultStrayWrite)
			b.runUntilIdle()

			Expect(b.memory.Violations()).To(HaveLen(1))
			Expect(b.memory.Violations()[0].Address).To(Equal(uint64(dstAddr - 1)))
		})

		It("should not raise the interrupt with FaultNoInterrupt", func() {
			b := run(FaultNoInterrupt)

			_, err := b.engine.TickUntil(b.accel.Interrupt, 500)
			Expect(err).To(MatchError(sim.ErrTickBudgetExceeded))
			Expect(b.accel.Busy()).To(BeFalse())
		})

		It("should write unreversed beats with FaultSwapByteOrder", func() {
			b := run(FaultSwapByteOrder)
			b.runUntilIdle()

			key := pattern(1, mem.KeyRegionBytes)
			want := oracle.Expected(128, key, pattern(2, 32), rocc.Encrypt)

			Expect(b.readBlocks(dstAddr, 2)).NotTo(Equal(want))
			Expect(b.memory.FinishedWriting(dstAddr, 2, make([]byte, 16))).
				To(BeTrue())
		})

		It("should keep busy high with FaultStuckBusy", func() {
			b := run(FaultStuckBusy)

			_, err := b.engine.TickUntil(b.accel.Interrupt, 500)
			Expect(err).NotTo(HaveOccurred())

			b.engine.TickN(10)
			Expect(b.accel.Busy()).To(BeTrue())
		})

		It("should answer an idle status poll twice with FaultRepeatStatus", func() {
			b := run(FaultRepeatStatus)
			b.runUntilIdle()

			b.push(rocc.StatusPoll{Function: rocc.StatusBusy})
			_, err := b.engine.TickUntil(func() bool {
				return b.monitor.Len() == 1
			}, 100)
			Expect(err).NotTo(HaveOccurred())

			b.engine.Tick()
			Expect(b.monitor.Drain()).To(Equal([]rocc.Response{
				{Status: 0}, {Status: 0},
			}))

			b.engine.TickN(5)
			Expect(b.monitor.Len()).To(Equal(0))
		})
	})
})
