// Package stimulus generates randomized rounds that exercise the accelerator.
package stimulus

import (
	"log"
	"math/rand"

	"github.com/sarchlab/roccaes/mem"
)

// MaxBlocks is the largest number of blocks in one round.
const MaxBlocks = 10

const maxPlacementAttempts = 1000

// Params configures how cases are generated.
type Params struct {
	KeySize     KeySizePolicy
	Operation   OperationPolicy
	Interrupt   InterruptPolicy
	Destructive DestructivePolicy

	BeatWidth int

	// Capacity is the number of words in the memory.
	Capacity uint64

	// MinBlocks and MaxBlocks bound the block count. They are clamped to
	// [1, 10].
	MinBlocks int
	MaxBlocks int
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		KeySize:     KeySizeRandom,
		Operation:   OperationRandom,
		Interrupt:   InterruptRandom,
		Destructive: DestructiveRandom,
		BeatWidth:   4,
		Capacity:    1 << 16,
		MinBlocks:   1,
		MaxBlocks:   MaxBlocks,
	}
}

// A Generator produces cases. Given the same seed, it produces the same
// sequence of cases.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator that draws from the random source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

type region struct {
	base  uint64
	words uint64
}

func (r region) overlaps(o region) bool {
	return r.base < o.base+o.words && o.base < r.base+r.words
}

// Generate creates the case of one round. If reuse is given and valid, the
// key size, the key address, and the key are taken from it and no key bytes
// are drawn.
func (g *Generator) Generate(params Params, reuse *KeyState) Case {
	params.mustBeValid()

	c := Case{BeatWidth: params.BeatWidth}
	reusing := reuse != nil && reuse.Valid

	if reusing {
		c.KeySizeBits = reuse.KeySizeBits
	} else {
		c.KeySizeBits = params.KeySize.Resolve(g.rng)
	}

	c.Direction = params.Operation.Resolve(g.rng)
	c.InterruptEnable = params.Interrupt.Resolve(g.rng)
	c.Destructive = params.Destructive.Resolve(g.rng)

	blockCount := g.blockCount(params)
	keyWords := uint64(mem.KeyRegionBytes / params.BeatWidth)
	blockWords := uint64(mem.WordsPerBlock(params.BeatWidth))
	dataWords := uint64(blockCount) * blockWords

	if reusing {
		c.KeyAddr = reuse.KeyAddr
		c.Key = make([]byte, mem.KeyRegionBytes)
		copy(c.Key, reuse.Key)
	} else {
		c.KeyAddr = g.place(params.Capacity, keyWords, keyWords)
		c.Key = g.key(c.KeySizeBits)
	}

	taken := []region{{c.KeyAddr, keyWords}}
	c.SrcAddr = g.placeAvoiding(params.Capacity, dataWords, blockWords, taken)
	taken = append(taken, region{c.SrcAddr, dataWords})
	c.DstAddr = g.placeAvoiding(params.Capacity, dataWords, blockWords, taken)

	c.Source = make([]byte, blockCount*mem.BlockBytes)
	g.rng.Read(c.Source)

	return c
}

func (g *Generator) blockCount(params Params) int {
	lo := clamp(params.MinBlocks, 1, MaxBlocks)
	hi := clamp(params.MaxBlocks, lo, MaxBlocks)

	return lo + g.rng.Intn(hi-lo+1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func (g *Generator) key(keySizeBits int) []byte {
	key := make([]byte, mem.KeyRegionBytes)
	g.rng.Read(key[:keySizeBits/8])

	return key
}

// place picks an aligned base address for a region of the given size.
func (g *Generator) place(capacity, words, align uint64) uint64 {
	slots := (capacity - words) / align

	return uint64(g.rng.Int63n(int64(slots)+1)) * align
}

func (g *Generator) placeAvoiding(
	capacity, words, align uint64,
	taken []region,
) uint64 {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		r := region{g.place(capacity, words, align), words}

		free := true
		for _, t := range taken {
			if r.overlaps(t) {
				free = false
				break
			}
		}

		if free {
			return r.base
		}
	}

	log.Panicf("cannot place %d words in a memory of %d words",
		words, capacity)

	return 0
}

func (p Params) mustBeValid() {
	mem.BeatWidthMustBeValid(p.BeatWidth)

	keyWords := uint64(mem.KeyRegionBytes / p.BeatWidth)
	maxDataWords := uint64(MaxBlocks * mem.WordsPerBlock(p.BeatWidth))

	if p.Capacity < 4*(keyWords+2*maxDataWords) {
		log.Panicf("memory of %d words is too small to place a round",
			p.Capacity)
	}
}
