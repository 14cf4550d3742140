package sim

import (
	"sync"
	"sync/atomic"
)

// A SerialEngine is an Engine that evaluates the tickers one after another
// within a cycle.
type SerialEngine struct {
	HookableBase

	freq  Freq
	cycle atomic.Uint64

	tickersLock sync.Mutex
	tickers     []Ticker

	lastTickMadeProgress atomic.Bool
}

// NewSerialEngine creates a SerialEngine running at the given frequency.
func NewSerialEngine(freq Freq) *SerialEngine {
	e := new(SerialEngine)
	e.freq = freq

	return e
}

// Freq returns the frequency of the clock.
func (e *SerialEngine) Freq() Freq {
	return e.freq
}

// RegisterTicker adds a ticker to the engine.
func (e *SerialEngine) RegisterTicker(t Ticker) {
	e.tickersLock.Lock()
	defer e.tickersLock.Unlock()

	for _, existing := range e.tickers {
		if existing == t {
			panic("ticker already registered")
		}
	}

	e.tickers = append(e.tickers, t)
}

// Tick evaluates all the tickers for one cycle.
func (e *SerialEngine) Tick() {
	e.tickersLock.Lock()
	tickers := e.tickers
	e.tickersLock.Unlock()

	cycle := e.cycle.Load()

	hookCtx := HookCtx{
		Domain: e,
		Cycle:  cycle,
		Pos:    HookPosBeforeTick,
	}
	e.InvokeHook(hookCtx)

	madeProgress := false
	for _, t := range tickers {
		madeProgress = t.Tick() || madeProgress
	}

	e.lastTickMadeProgress.Store(madeProgress)
	e.cycle.Store(cycle + 1)

	hookCtx.Pos = HookPosAfterTick
	hookCtx.Item = madeProgress
	e.InvokeHook(hookCtx)
}

// TickN advances the clock by n cycles.
func (e *SerialEngine) TickN(n uint64) {
	for i := uint64(0); i < n; i++ {
		e.Tick()
	}
}

// TickUntil ticks until pred holds or the budget runs out.
func (e *SerialEngine) TickUntil(
	pred func() bool,
	maxTicks uint64,
) (uint64, error) {
	ticks := uint64(0)

	for !pred() {
		if ticks >= maxTicks {
			return ticks, ErrTickBudgetExceeded
		}

		e.Tick()
		ticks++
	}

	return ticks, nil
}

// CurrentCycle returns the number of cycles evaluated so far.
func (e *SerialEngine) CurrentCycle() uint64 {
	return e.cycle.Load()
}

// Now returns the current time at which the engine is at.
func (e *SerialEngine) Now() VTimeInSec {
	return e.freq.CyclesToTime(e.cycle.Load())
}

// LastTickMadeProgress tells if any ticker made progress in the last cycle.
func (e *SerialEngine) LastTickMadeProgress() bool {
	return e.lastTickMadeProgress.Load()
}
