package stimulus

import (
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/rocc"
)

// KeyState is the key that the accelerator holds at the end of a round. It is
// carried from round to round by the caller.
type KeyState struct {
	Valid       bool
	KeySizeBits int
	KeyAddr     uint64
	Key         []byte
}

// A Case is everything a round needs to program the memory, drive the
// accelerator, and check the results.
type Case struct {
	KeySizeBits int
	KeyAddr     uint64

	// Key is always KeyRegionBytes long. Bytes beyond the key size are zero.
	Key []byte

	SrcAddr uint64

	// Source is the concatenation of the input blocks.
	Source []byte

	DstAddr         uint64
	Destructive     bool
	Direction       rocc.Direction
	InterruptEnable bool
	BeatWidth       int
}

// BlockCount returns the number of blocks to process.
func (c Case) BlockCount() int {
	return len(c.Source) / mem.BlockBytes
}

// Block returns the i-th input block.
func (c Case) Block(i int) []byte {
	return c.Source[i*mem.BlockBytes : (i+1)*mem.BlockBytes]
}

// DstWords returns the number of words that the accelerator should write.
func (c Case) DstWords() uint64 {
	return uint64(c.BlockCount() * mem.WordsPerBlock(c.BeatWidth))
}

// KeyState returns the key state that the accelerator holds after the round.
func (c Case) KeyState() KeyState {
	key := make([]byte, len(c.Key))
	copy(key, c.Key)

	return KeyState{
		Valid:       true,
		KeySizeBits: c.KeySizeBits,
		KeyAddr:     c.KeyAddr,
		Key:         key,
	}
}

// Sentinel returns the block that pre-fills every destination block. In
// destructive rounds it is the final input block. Otherwise it is zero.
func (c Case) Sentinel() []byte {
	sentinel := make([]byte, mem.BlockBytes)

	if c.Destructive {
		copy(sentinel, c.Block(c.BlockCount()-1))
	}

	return sentinel
}

// InitialMemory returns the words to preload before the round starts: the key
// region, the source blocks, and the destination pre-fill.
func (c Case) InitialMemory() []mem.Word {
	words := mem.LayoutWords(c.KeyAddr, c.Key, c.BeatWidth)
	words = append(words, mem.LayoutWords(c.SrcAddr, c.Source, c.BeatWidth)...)

	sentinel := c.Sentinel()
	dst := make([]byte, 0, len(c.Source))

	for i := 0; i < c.BlockCount(); i++ {
		dst = append(dst, sentinel...)
	}

	words = append(words, mem.LayoutWords(c.DstAddr, dst, c.BeatWidth)...)

	return words
}

// Commands returns the command batch of the round. The key load is left out
// when the accelerator reuses the key it already holds.
func (c Case) Commands(reuse bool) []rocc.Command {
	cmds := make([]rocc.Command, 0, 5)

	if !reuse {
		cmds = append(cmds, rocc.KeyLoad{
			KeySizeBits: c.KeySizeBits,
			KeyAddr:     c.KeyAddr,
		})
	}

	cmds = append(cmds,
		rocc.AddrLoad{SrcAddr: c.SrcAddr, DstAddr: c.DstAddr},
		rocc.CipherBlock{
			Direction:       c.Direction,
			BlockCount:      c.BlockCount(),
			InterruptEnable: c.InterruptEnable,
		},
		rocc.StatusPoll{Function: rocc.StatusBusy},
		rocc.StatusPoll{Function: rocc.StatusBusy},
	)

	return cmds
}
