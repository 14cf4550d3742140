package sim

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	// Tick evaluates one cycle and returns true if any progress was made.
	Tick() bool
}

// TickingComponent is a type of component that update states from cycle to
// cycle. A programmer would only need to program a tick function for a ticking
// component.
type TickingComponent struct {
	*ComponentBase

	Engine Engine
}

// NewTickingComponent creates a new ticking component and registers the
// ticker with the engine.
func NewTickingComponent(
	name string,
	engine Engine,
	ticker Ticker,
) *TickingComponent {
	if engine == nil {
		panic("engine is not given")
	}

	tc := new(TickingComponent)
	tc.ComponentBase = NewComponentBase(name)
	tc.Engine = engine

	engine.RegisterTicker(ticker)

	return tc
}

// CurrentCycle returns the current cycle of the engine that drives the
// component.
func (c *TickingComponent) CurrentCycle() uint64 {
	return c.Engine.CurrentCycle()
}
