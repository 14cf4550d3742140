package mem

import (
	"fmt"
	"log"
)

// BlockBytes is the size of one cipher block.
const BlockBytes = 16

// KeyRegionBytes is the size of the region reserved for a key. A 128-bit key
// only uses the first half.
const KeyRegionBytes = 32

// ValidateBeatWidth returns an error if the beat width cannot carry cipher
// blocks. A block must be made of a whole number of beats.
func ValidateBeatWidth(beatWidth int) error {
	switch beatWidth {
	case 4, 8, 16:
		return nil
	default:
		return fmt.Errorf("beat width %d is not supported, use 4, 8 or 16",
			beatWidth)
	}
}

// BeatWidthMustBeValid panics if the beat width is not supported.
func BeatWidthMustBeValid(beatWidth int) {
	if err := ValidateBeatWidth(beatWidth); err != nil {
		log.Panic(err)
	}
}

// WordsPerBlock returns the number of words that make up one block.
func WordsPerBlock(beatWidth int) int {
	BeatWidthMustBeValid(beatWidth)

	return BlockBytes / beatWidth
}

// BytesToWords splits a cipher byte stream into memory words.
//
// Beat k carries bytes [k*beatWidth, (k+1)*beatWidth) of the stream in
// reversed order, so that the little-endian bus value of the word reads as
// the big-endian value of the cipher bytes it carries. For example, with a
// 4-byte beat the bytes 00 01 02 03 are stored as the word 03 02 01 00, whose
// bus value is 0x00010203.
//
// Keys, plaintext and ciphertext all go through this function and
// WordsToBytes. Nothing else in the module converts between the two forms.
func BytesToWords(data []byte, beatWidth int) [][]byte {
	BeatWidthMustBeValid(beatWidth)

	if len(data)%beatWidth != 0 {
		log.Panicf("%d bytes cannot be split into %d-byte words",
			len(data), beatWidth)
	}

	words := make([][]byte, 0, len(data)/beatWidth)

	for base := 0; base < len(data); base += beatWidth {
		word := make([]byte, beatWidth)
		for i := 0; i < beatWidth; i++ {
			word[i] = data[base+beatWidth-1-i]
		}

		words = append(words, word)
	}

	return words
}

// WordsToBytes joins memory words back into a cipher byte stream. It is the
// inverse of BytesToWords.
func WordsToBytes(words [][]byte) []byte {
	data := make([]byte, 0)

	for _, word := range words {
		for i := len(word) - 1; i >= 0; i-- {
			data = append(data, word[i])
		}
	}

	return data
}

// LayoutWords converts data into words placed at consecutive addresses
// starting from base.
func LayoutWords(base uint64, data []byte, beatWidth int) []Word {
	values := BytesToWords(data, beatWidth)
	words := make([]Word, len(values))

	for i, v := range values {
		words[i] = Word{Address: base + uint64(i), Value: v}
	}

	return words
}
