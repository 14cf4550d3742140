package accel

import (
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/sim"
)

// A Builder can build accelerator models.
type Builder struct {
	engine              sim.Engine
	beatWidth           int
	keyExpansionLatency int
	cipherLatency       int
	cmdBufSize          int
	memBufSize          int
	fault               Fault
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		beatWidth:           4,
		keyExpansionLatency: 10,
		cipherLatency:       8,
		cmdBufSize:          1,
		memBufSize:          4,
	}
}

// WithEngine sets the engine that ticks the accelerator.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithBeatWidth sets the number of bytes the accelerator moves per bus
// transaction.
func (b Builder) WithBeatWidth(beatWidth int) Builder {
	b.beatWidth = beatWidth
	return b
}

// WithKeyExpansionLatency sets the cycles spent expanding a loaded key.
func (b Builder) WithKeyExpansionLatency(cycles int) Builder {
	b.keyExpansionLatency = cycles
	return b
}

// WithCipherLatency sets the cycles spent on one block.
func (b Builder) WithCipherLatency(cycles int) Builder {
	b.cipherLatency = cycles
	return b
}

// WithCmdBufSize sets how many commands can wait at the accelerator.
func (b Builder) WithCmdBufSize(n int) Builder {
	b.cmdBufSize = n
	return b
}

// WithMemBufSize sets how many memory responses can wait at the
// accelerator.
func (b Builder) WithMemBufSize(n int) Builder {
	b.memBufSize = n
	return b
}

// WithFault injects a fault.
func (b Builder) WithFault(f Fault) Builder {
	b.fault = f
	return b
}

// Build creates the accelerator.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		beatWidth:           b.beatWidth,
		keyExpansionLatency: b.keyExpansionLatency,
		cipherLatency:       b.cipherLatency,
		fault:               b.fault,
		keyBits:             128,
		key:                 make([]byte, mem.KeyRegionBytes),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, c)

	c.cmdPort = sim.NewPort(c, b.cmdBufSize, name+".CmdPort")
	c.respPort = sim.NewPort(c, 1, name+".RespPort")
	c.memPort = sim.NewPort(c, b.memBufSize, name+".MemPort")
	c.AddPort("Cmd", c.cmdPort)
	c.AddPort("Resp", c.respPort)
	c.AddPort("Mem", c.memPort)

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not given")
	}

	mem.BeatWidthMustBeValid(b.beatWidth)

	if b.keyExpansionLatency < 1 || b.cipherLatency < 1 {
		panic("latencies must be at least 1 cycle")
	}

	if b.cmdBufSize < 1 || b.memBufSize < 1 {
		panic("buffer sizes must be at least 1")
	}
}
