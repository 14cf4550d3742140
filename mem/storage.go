package mem

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAddressOutOfRange is returned when accessing a word beyond the storage
// capacity.
var ErrAddressOutOfRange = errors.New("accessing word address beyond the storage capacity")

// ErrWordSize is returned when writing a value whose size is not the beat
// width.
var ErrWordSize = errors.New("value size does not match the beat width")

// A Word is the value stored at one word address.
type Word struct {
	Address uint64
	Value   []byte
}

// A Storage keeps the data of the memory model.
//
// The storage is addressed by word. Each word holds exactly one beat of data.
// Words that are never written are not allocated and read as zero.
type Storage struct {
	beatWidth int
	capacity  uint64
	data      map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity counted in
// words.
func NewStorage(beatWidth int, capacity uint64) *Storage {
	BeatWidthMustBeValid(beatWidth)

	storage := new(Storage)
	storage.beatWidth = beatWidth
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// BeatWidth returns the number of bytes in a word.
func (s *Storage) BeatWidth() int {
	return s.beatWidth
}

// Capacity returns the number of words the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// Read returns a copy of the word at the given address.
func (s *Storage) Read(address uint64) ([]byte, error) {
	if address >= s.capacity {
		return nil, fmt.Errorf("read 0x%x: %w", address, ErrAddressOutOfRange)
	}

	res := make([]byte, s.beatWidth)

	if value, ok := s.data[address]; ok {
		copy(res, value)
	}

	return res, nil
}

// Write replaces the word at the given address.
func (s *Storage) Write(address uint64, value []byte) error {
	if address >= s.capacity {
		return fmt.Errorf("write 0x%x: %w", address, ErrAddressOutOfRange)
	}

	if len(value) != s.beatWidth {
		return fmt.Errorf("write 0x%x with %d bytes: %w",
			address, len(value), ErrWordSize)
	}

	word := make([]byte, s.beatWidth)
	copy(word, value)
	s.data[address] = word

	return nil
}

// Reset removes all the words.
func (s *Storage) Reset() {
	s.data = make(map[uint64][]byte)
}

// Words returns all the words that have been written, ordered by address.
func (s *Storage) Words() []Word {
	words := make([]Word, 0, len(s.data))
	for addr, value := range s.data {
		v := make([]byte, len(value))
		copy(v, value)
		words = append(words, Word{Address: addr, Value: v})
	}

	sort.Slice(words, func(i, j int) bool {
		return words[i].Address < words[j].Address
	})

	return words
}
