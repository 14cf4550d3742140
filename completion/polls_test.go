package completion

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/roccaes/rocc"
)

var _ = Describe("CheckPollResponses", func() {
	busy := rocc.Response{Status: 1}
	idle := rocc.Response{Status: 0}

	It("should accept busy, busy, idle", func() {
		Expect(CheckPollResponses([]rocc.Response{busy, busy, idle})).
			To(Succeed())
	})

	It("should reject a wrong count", func() {
		Expect(CheckPollResponses([]rocc.Response{busy, idle})).
			To(MatchError(ErrPollCount))
		Expect(CheckPollResponses(nil)).To(MatchError(ErrPollCount))
	})

	It("should reject a wrong sequence", func() {
		Expect(CheckPollResponses([]rocc.Response{busy, idle, idle})).
			To(MatchError(ErrPollSequence))
		Expect(CheckPollResponses([]rocc.Response{busy, busy, busy})).
			To(MatchError(ErrPollSequence))
	})
})
