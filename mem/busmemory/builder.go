package busmemory

import (
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/sim"
)

// A Builder can build bus memories.
type Builder struct {
	engine     sim.Engine
	beatWidth  int
	capacity   uint64
	latency    int
	width      int
	topBufSize int
	storage    *mem.Storage
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		beatWidth:  4,
		capacity:   1 << 16,
		latency:    2,
		width:      1,
		topBufSize: 4,
	}
}

// WithEngine sets the engine that ticks the memory.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithBeatWidth sets the number of bytes in a word.
func (b Builder) WithBeatWidth(beatWidth int) Builder {
	b.beatWidth = beatWidth
	return b
}

// WithCapacity sets the number of words that the memory can hold.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithLatency sets the number of cycles between accepting a request and
// responding to it.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithWidth sets the number of requests that can be accepted per cycle.
func (b Builder) WithWidth(width int) Builder {
	b.width = width
	return b
}

// WithTopBufSize sets the size of the incoming buffer of the top port.
func (b Builder) WithTopBufSize(n int) Builder {
	b.topBufSize = n
	return b
}

// WithStorage lets the memory use an existing storage.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// Build builds a new Comp
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		latency: b.latency,
		width:   b.width,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, c)

	if b.storage == nil {
		c.storage = mem.NewStorage(b.beatWidth, b.capacity)
	} else {
		c.storage = b.storage
	}

	c.topPort = sim.NewPort(c, b.topBufSize, name+".TopPort")
	c.AddPort("Top", c.topPort)

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not given")
	}

	if b.storage != nil && b.storage.BeatWidth() != b.beatWidth {
		panic("storage beat width does not match the memory beat width")
	}

	mem.BeatWidthMustBeValid(b.beatWidth)

	if b.latency < 1 {
		panic("latency must be at least 1 cycle")
	}

	if b.width < 1 {
		panic("width must be at least 1")
	}
}
