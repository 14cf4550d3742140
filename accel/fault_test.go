package accel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fault", func() {
	It("should parse every name it prints", func() {
		for f := FaultNone; f <= FaultRepeatStatus; f++ {
			parsed, err := ParseFault(f.String())

			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(f))
		}
	})

	It("should reject unknown names", func() {
		_, err := ParseFault("melt")

		Expect(err).To(HaveOccurred())
	})
})
