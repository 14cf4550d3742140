// Package oracle computes the expected results of cipher commands and checks
// them against the memory.
package oracle

import (
	"bytes"
	"crypto/aes"
	"fmt"
	"log"

	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/rocc"
)

// A WordReader can read words from a memory.
type WordReader interface {
	Read(address uint64) ([]byte, error)
}

// CheckInput describes what the accelerator was asked to do.
type CheckInput struct {
	KeySizeBits int

	// Key is the value of the key region. Only the first KeySizeBits bits are
	// used.
	Key []byte

	// Source is the concatenation of the input blocks.
	Source []byte

	DstAddr   uint64
	Direction rocc.Direction
	BeatWidth int
}

// A Mismatch is a block whose content in memory differs from the expected
// result.
type Mismatch struct {
	Block    int
	Expected []byte
	Actual   []byte
}

func (m Mismatch) String() string {
	return fmt.Sprintf("block %d: expected %x, got %x",
		m.Block, m.Expected, m.Actual)
}

// Result is the outcome of a check.
type Result struct {
	Passed     bool
	Mismatches []Mismatch
}

// Check compares every destination block in memory against the reference
// cipher.
func Check(in CheckInput, memory WordReader) Result {
	expected := Expected(in.KeySizeBits, in.Key, in.Source, in.Direction)
	wordsPerBlock := mem.WordsPerBlock(in.BeatWidth)
	result := Result{Passed: true}

	for block := 0; block*mem.BlockBytes < len(expected); block++ {
		want := expected[block*mem.BlockBytes : (block+1)*mem.BlockBytes]
		base := in.DstAddr + uint64(block*wordsPerBlock)

		got, err := readBlock(memory, base, wordsPerBlock)
		if err != nil || !bytes.Equal(got, want) {
			result.Passed = false
			result.Mismatches = append(result.Mismatches, Mismatch{
				Block:    block,
				Expected: want,
				Actual:   got,
			})
		}
	}

	return result
}

func readBlock(
	memory WordReader,
	base uint64,
	wordsPerBlock int,
) ([]byte, error) {
	words := make([][]byte, wordsPerBlock)

	for i := range words {
		w, err := memory.Read(base + uint64(i))
		if err != nil {
			return nil, err
		}

		words[i] = w
	}

	return mem.WordsToBytes(words), nil
}

// Expected returns the result of applying the cipher to every block of the
// source.
func Expected(
	keySizeBits int,
	key []byte,
	source []byte,
	direction rocc.Direction,
) []byte {
	if len(source)%mem.BlockBytes != 0 {
		log.Panicf("source of %d bytes is not made of whole blocks",
			len(source))
	}

	out := make([]byte, 0, len(source))

	for base := 0; base < len(source); base += mem.BlockBytes {
		block := source[base : base+mem.BlockBytes]

		switch direction {
		case rocc.Encrypt:
			out = append(out, Encrypt(keySizeBits, key, block)...)
		case rocc.Decrypt:
			out = append(out, Decrypt(keySizeBits, key, block)...)
		default:
			log.Panicf("unknown direction %s", direction)
		}
	}

	return out
}

// Encrypt encrypts one block.
func Encrypt(keySizeBits int, key []byte, block []byte) []byte {
	out := make([]byte, mem.BlockBytes)
	newCipher(keySizeBits, key).Encrypt(out, block)

	return out
}

// Decrypt decrypts one block.
func Decrypt(keySizeBits int, key []byte, block []byte) []byte {
	out := make([]byte, mem.BlockBytes)
	newCipher(keySizeBits, key).Decrypt(out, block)

	return out
}

func newCipher(keySizeBits int, key []byte) interface {
	Encrypt(dst, src []byte)
	Decrypt(dst, src []byte)
} {
	if keySizeBits != 128 && keySizeBits != 256 {
		log.Panicf("key size %d is not supported", keySizeBits)
	}

	if len(key)*8 < keySizeBits {
		log.Panicf("key of %d bytes is shorter than %d bits",
			len(key), keySizeBits)
	}

	c, err := aes.NewCipher(key[:keySizeBits/8])
	if err != nil {
		log.Panic(err)
	}

	return c
}
