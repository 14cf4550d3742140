package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Layout", func() {
	block := []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}

	It("should reverse bytes within 4-byte beats", func() {
		words := BytesToWords(block, 4)

		Expect(words).To(Equal([][]byte{
			{0x03, 0x02, 0x01, 0x00},
			{0x07, 0x06, 0x05, 0x04},
			{0x0b, 0x0a, 0x09, 0x08},
			{0x0f, 0x0e, 0x0d, 0x0c},
		}))
	})

	It("should reverse bytes within 8-byte beats", func() {
		words := BytesToWords(block, 8)

		Expect(words).To(Equal([][]byte{
			{0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00},
			{0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08},
		}))
	})

	It("should store a whole block in one 16-byte beat", func() {
		words := BytesToWords(block, 16)

		Expect(words).To(HaveLen(1))
		Expect(words[0][0]).To(Equal(byte(0x0f)))
		Expect(words[0][15]).To(Equal(byte(0x00)))
	})

	DescribeTable("should round trip",
		func(beatWidth int) {
			key := make([]byte, KeyRegionBytes)
			for i := range key {
				key[i] = byte(i * 7)
			}

			words := BytesToWords(key, beatWidth)
			Expect(words).To(HaveLen(KeyRegionBytes / beatWidth))
			Expect(WordsToBytes(words)).To(Equal(key))
		},
		Entry("4-byte beat", 4),
		Entry("8-byte beat", 8),
		Entry("16-byte beat", 16),
	)

	It("should place words at consecutive addresses", func() {
		words := LayoutWords(100, block, 8)

		Expect(words).To(HaveLen(2))
		Expect(words[0].Address).To(Equal(uint64(100)))
		Expect(words[1].Address).To(Equal(uint64(101)))
		Expect(words[1].Value[0]).To(Equal(byte(0x0f)))
	})

	It("should refuse data that is not a whole number of beats", func() {
		Expect(func() { BytesToWords(block[:6], 4) }).To(Panic())
	})

	It("should validate beat widths", func() {
		Expect(ValidateBeatWidth(16)).To(Succeed())
		Expect(ValidateBeatWidth(32)).NotTo(Succeed())
		Expect(WordsPerBlock(4)).To(Equal(4))
	})
})
