package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/roccaes/sim"
	"go.uber.org/mock/gomock"
)

type testTimeTeller struct {
	cycle uint64
}

func (t *testTimeTeller) CurrentCycle() uint64 {
	return t.cycle
}

func (t *testTimeTeller) Now() sim.VTimeInSec {
	return sim.VTimeInSec(t.cycle)
}

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *testTimeTeller
		recorder   *MockDataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = &testTimeTeller{}
		recorder = NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable(TraceTableName, gomock.Any())
		tracer = NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write the task when it ends", func() {
		timeTeller.cycle = 3
		tracer.StartTask(Task{
			ID:       "t1",
			Kind:     "req_in",
			What:     "*mem.ReadReq",
			Location: "Memory",
		})

		timeTeller.cycle = 7
		recorder.EXPECT().
			InsertData(TraceTableName, gomock.Any()).
			Do(func(_ string, entry any) {
				e := entry.(taskTableEntry)
				Expect(e.ID).To(Equal("t1"))
				Expect(e.StartCycle).To(Equal(uint64(3)))
				Expect(e.EndCycle).To(Equal(uint64(7)))
			})

		tracer.EndTask(Task{ID: "t1"})

		Expect(tracer.NumInflightTasks()).To(Equal(0))
	})

	It("should ignore the end of an unknown task", func() {
		tracer.EndTask(Task{ID: "unknown"})
	})

	It("should panic if the task has no location", func() {
		Expect(func() {
			tracer.StartTask(Task{ID: "t1", Kind: "k", What: "w"})
		}).To(Panic())
	})

	It("should write unfinished tasks on terminate", func() {
		tracer.StartTask(Task{
			ID:       "t1",
			Kind:     "cmd",
			What:     "KeyLoad",
			Location: "Driver",
		})

		recorder.EXPECT().InsertData(TraceTableName, gomock.Any())
		recorder.EXPECT().Flush()

		tracer.Terminate()

		Expect(tracer.NumInflightTasks()).To(Equal(0))
	})
})
