package sim

import "errors"

// ErrTickBudgetExceeded is returned when a condition does not hold within the
// number of ticks that the caller allows.
var ErrTickBudgetExceeded = errors.New("tick budget exceeded")

// HookPosBeforeTick is a hook position that triggers before a cycle is
// evaluated.
var HookPosBeforeTick = &HookPos{Name: "BeforeTick"}

// HookPosAfterTick is a hook position that triggers after all the tickers
// are evaluated in a cycle.
var HookPosAfterTick = &HookPos{Name: "AfterTick"}

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	// CurrentCycle returns the number of cycles that have been evaluated.
	CurrentCycle() uint64

	// Now returns the current time in seconds.
	Now() VTimeInSec
}

// An Engine owns the global clock. All the registered tickers advance in
// lockstep, one cycle per Tick call. Nothing moves unless someone asks the
// engine to tick.
type Engine interface {
	Hookable
	TimeTeller

	// RegisterTicker adds a ticker to be evaluated every cycle. Tickers are
	// evaluated in registration order.
	RegisterTicker(t Ticker)

	// Tick advances the clock by one cycle.
	Tick()

	// TickN advances the clock by n cycles.
	TickN(n uint64)

	// TickUntil ticks until pred returns true. The predicate is checked
	// before every tick. It returns the number of ticks consumed, or
	// ErrTickBudgetExceeded if the predicate is still false after maxTicks
	// ticks.
	TickUntil(pred func() bool, maxTicks uint64) (uint64, error)
}
