package stimulus

import (
	"bytes"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/rocc"
)

var _ = Describe("Generator", func() {
	var (
		params Params
		gen    *Generator
	)

	BeforeEach(func() {
		params = DefaultParams()
		gen = NewGenerator(rand.New(rand.NewSource(1)))
	})

	It("should be deterministic for a seed", func() {
		other := NewGenerator(rand.New(rand.NewSource(1)))

		for i := 0; i < 20; i++ {
			Expect(gen.Generate(params, nil)).
				To(Equal(other.Generate(params, nil)))
		}
	})

	It("should keep the block count within [1, 10]", func() {
		seen := map[int]bool{}

		for i := 0; i < 500; i++ {
			c := gen.Generate(params, nil)

			Expect(c.BlockCount()).To(BeNumerically(">=", 1))
			Expect(c.BlockCount()).To(BeNumerically("<=", 10))
			seen[c.BlockCount()] = true
		}

		Expect(seen).To(HaveKey(1))
		Expect(seen).To(HaveKey(10))
	})

	It("should clamp the configured block bounds", func() {
		params.MinBlocks = 0
		params.MaxBlocks = 50

		for i := 0; i < 100; i++ {
			c := gen.Generate(params, nil)
			Expect(c.BlockCount()).To(BeNumerically("<=", 10))
			Expect(c.BlockCount()).To(BeNumerically(">=", 1))
		}

		params.MinBlocks = 3
		params.MaxBlocks = 3
		Expect(gen.Generate(params, nil).BlockCount()).To(Equal(3))
	})

	It("should keep the regions apart and inside the memory", func() {
		for _, beatWidth := range []int{4, 8, 16} {
			params.BeatWidth = beatWidth
			params.Capacity = 512

			for i := 0; i < 200; i++ {
				c := gen.Generate(params, nil)

				keyRegion := region{c.KeyAddr, uint64(mem.KeyRegionBytes / beatWidth)}
				src := region{c.SrcAddr, c.DstWords()}
				dst := region{c.DstAddr, c.DstWords()}

				Expect(keyRegion.overlaps(src)).To(BeFalse())
				Expect(keyRegion.overlaps(dst)).To(BeFalse())
				Expect(src.overlaps(dst)).To(BeFalse())

				for _, r := range []region{keyRegion, src, dst} {
					Expect(r.base + r.words).To(BeNumerically("<=", params.Capacity))
				}
			}
		}
	})

	It("should zero the key bytes beyond the key size", func() {
		params.KeySize = KeySize128

		c := gen.Generate(params, nil)

		Expect(c.KeySizeBits).To(Equal(128))
		Expect(c.Key).To(HaveLen(mem.KeyRegionBytes))
		Expect(c.Key[16:]).To(Equal(make([]byte, 16)))
	})

	It("should take the key from the carried state", func() {
		params.KeySize = KeySize128
		first := gen.Generate(params, nil)
		state := first.KeyState()

		params.KeySize = KeySize256
		second := gen.Generate(params, &state)

		Expect(second.KeySizeBits).To(Equal(128))
		Expect(second.KeyAddr).To(Equal(first.KeyAddr))
		Expect(second.Key).To(Equal(first.Key))
	})

	It("should not draw key bytes when reusing", func() {
		params.KeySize = KeySize256
		state := gen.Generate(params, nil).KeyState()

		a := NewGenerator(rand.New(rand.NewSource(7)))
		b := NewGenerator(rand.New(rand.NewSource(7)))

		reused := a.Generate(params, &state)
		fresh := b.Generate(params, nil)

		Expect(reused.Source).NotTo(Equal(fresh.Source))
	})

	It("should ignore an invalid carried state", func() {
		state := KeyState{}

		c := gen.Generate(params, &state)

		Expect(c.KeySizeBits).To(BeElementOf(128, 256))
		Expect(c.Key).To(HaveLen(mem.KeyRegionBytes))
	})

	It("should panic when the memory is too small", func() {
		params.Capacity = 64

		Expect(func() { gen.Generate(params, nil) }).To(Panic())
	})
})

var _ = Describe("Case", func() {
	var c Case

	BeforeEach(func() {
		gen := NewGenerator(rand.New(rand.NewSource(3)))
		params := DefaultParams()
		params.MinBlocks = 3
		params.MaxBlocks = 3
		params.Destructive = Destructive
		c = gen.Generate(params, nil)
	})

	It("should pre-fill destructive destinations with the last block", func() {
		Expect(c.Sentinel()).To(Equal(c.Block(2)))

		storage := mem.NewStorage(c.BeatWidth, 1<<16)
		for _, w := range c.InitialMemory() {
			Expect(storage.Write(w.Address, w.Value)).To(Succeed())
		}

		wordsPerBlock := mem.WordsPerBlock(c.BeatWidth)
		for block := 0; block < 3; block++ {
			words := make([][]byte, wordsPerBlock)
			for i := range words {
				words[i], _ = storage.Read(
					c.DstAddr + uint64(block*wordsPerBlock+i))
			}

			Expect(bytes.Equal(mem.WordsToBytes(words), c.Block(2))).
				To(BeTrue())
		}
	})

	It("should pre-fill non-destructive destinations with zero", func() {
		c.Destructive = false

		Expect(c.Sentinel()).To(Equal(make([]byte, mem.BlockBytes)))
	})

	It("should load the key and the source", func() {
		words := c.InitialMemory()

		keyWords := mem.KeyRegionBytes / c.BeatWidth
		Expect(words[0].Address).To(Equal(c.KeyAddr))
		Expect(words[keyWords].Address).To(Equal(c.SrcAddr))
		Expect(words).To(HaveLen(keyWords + 2*int(c.DstWords())))
	})

	It("should build the command batch", func() {
		cmds := c.Commands(false)

		Expect(cmds).To(HaveLen(5))
		Expect(cmds[0]).To(Equal(rocc.KeyLoad{
			KeySizeBits: c.KeySizeBits,
			KeyAddr:     c.KeyAddr,
		}))
		Expect(cmds[1]).To(Equal(rocc.AddrLoad{
			SrcAddr: c.SrcAddr,
			DstAddr: c.DstAddr,
		}))
		Expect(cmds[2]).To(Equal(rocc.CipherBlock{
			Direction:       c.Direction,
			BlockCount:      3,
			InterruptEnable: c.InterruptEnable,
		}))
		Expect(cmds[3]).To(Equal(rocc.StatusPoll{Function: rocc.StatusBusy}))
		Expect(cmds[4]).To(Equal(rocc.StatusPoll{Function: rocc.StatusBusy}))
	})

	It("should leave out the key load when reusing", func() {
		cmds := c.Commands(true)

		Expect(cmds).To(HaveLen(4))
		Expect(cmds[0]).To(BeAssignableToTypeOf(rocc.AddrLoad{}))
	})
})
