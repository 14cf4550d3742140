package sim

import (
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		t1, t2   *MockTicker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine(1 * GHz)
		t1 = NewMockTicker(mockCtrl)
		t2 = NewMockTicker(mockCtrl)
		engine.RegisterTicker(t1)
		engine.RegisterTicker(t2)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick all tickers in registration order", func() {
		gomock.InOrder(
			t1.EXPECT().Tick().Return(false),
			t2.EXPECT().Tick().Return(true),
		)

		engine.Tick()

		Expect(engine.CurrentCycle()).To(Equal(uint64(1)))
		Expect(engine.LastTickMadeProgress()).To(BeTrue())
		Expect(engine.Now()).To(BeNumerically("~", 1e-9, 1e-15))
	})

	It("should not register a ticker twice", func() {
		Expect(func() { engine.RegisterTicker(t1) }).To(Panic())
	})

	It("should invoke hooks before and after a tick", func() {
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)

		t1.EXPECT().Tick().Return(false)
		t2.EXPECT().Tick().Return(false)
		gomock.InOrder(
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosBeforeTick))
				Expect(ctx.Cycle).To(Equal(uint64(0)))
			}),
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosAfterTick))
				Expect(ctx.Item).To(Equal(false))
			}),
		)

		engine.Tick()
	})

	It("should tick until the predicate holds", func() {
		t1.EXPECT().Tick().Return(true).Times(3)
		t2.EXPECT().Tick().Return(true).Times(3)

		ticks, err := engine.TickUntil(func() bool {
			return engine.CurrentCycle() == 3
		}, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal(uint64(3)))
	})

	It("should not tick if the predicate already holds", func() {
		ticks, err := engine.TickUntil(func() bool { return true }, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(BeZero())
	})

	It("should report an exceeded budget", func() {
		t1.EXPECT().Tick().Return(false).Times(4)
		t2.EXPECT().Tick().Return(false).Times(4)

		ticks, err := engine.TickUntil(func() bool { return false }, 4)

		Expect(err).To(MatchError(ErrTickBudgetExceeded))
		Expect(ticks).To(Equal(uint64(4)))
	})
})
