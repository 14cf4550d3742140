package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AverageTimeTracer", func() {
	var (
		timeTeller *testTimeTeller
		tracer     *AverageTimeTracer
	)

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}
		tracer = NewAverageTimeTracer(timeTeller, KindFilter("req_in"))
	})

	It("should average the task latencies", func() {
		tracer.StartTask(Task{ID: "a", Kind: "req_in"})
		timeTeller.cycle = 2
		tracer.StartTask(Task{ID: "b", Kind: "req_in"})
		timeTeller.cycle = 4
		tracer.EndTask(Task{ID: "a"})
		timeTeller.cycle = 10
		tracer.EndTask(Task{ID: "b"})

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.AverageCycles()).To(BeNumerically("~", 6.0))
	})

	It("should skip tasks that do not pass the filter", func() {
		tracer.StartTask(Task{ID: "a", Kind: "cmd"})
		timeTeller.cycle = 4
		tracer.EndTask(Task{ID: "a"})

		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
	})
})
