// Package harness runs verification rounds against the accelerator.
package harness

import (
	"fmt"

	"github.com/sarchlab/roccaes/accel"
	"github.com/sarchlab/roccaes/config"
	"github.com/sarchlab/roccaes/driver"
	"github.com/sarchlab/roccaes/mem/busmemory"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

// BusLatencyTaskKind is the kind of the tasks that measure bus transactions.
const BusLatencyTaskKind = "req_in"

// Platform is the set of connected components that a run drives.
type Platform struct {
	Engine      *sim.SerialEngine
	Driver      *driver.Driver
	Accel       *accel.Comp
	Memory      *busmemory.Comp
	Monitor     *driver.Monitor
	Connections []*sim.DirectConnection

	// BusLatency measures the latency of the bus transactions.
	BusLatency *tracing.AverageTimeTracer
}

// Components returns every component of the platform.
func (p *Platform) Components() []sim.Component {
	return []sim.Component{p.Driver, p.Accel, p.Memory, p.Monitor}
}

// Builder assembles a Platform.
type Builder struct {
	cfg config.Config
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{cfg: config.Default()}
}

// WithConfig sets the configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// Build creates the platform. A beat width mismatch between the harness and
// the accelerator is reported as a configuration error.
func (b Builder) Build() (*Platform, error) {
	if b.cfg.BeatWidth != b.cfg.AccelBeatWidth {
		return nil, fmt.Errorf("harness %d bytes, accelerator %d bytes: %w",
			b.cfg.BeatWidth, b.cfg.AccelBeatWidth,
			config.ErrBeatWidthMismatch)
	}

	err := b.cfg.Validate()
	if err != nil {
		return nil, err
	}

	p := &Platform{}
	p.Engine = sim.NewSerialEngine(1 * sim.GHz)

	// The driver ticks first so that a command sent in a cycle is seen by
	// the accelerator in the same cycle.
	p.Driver = driver.NewDriver("Driver", p.Engine)
	p.Accel = accel.MakeBuilder().
		WithEngine(p.Engine).
		WithBeatWidth(b.cfg.AccelBeatWidth).
		WithKeyExpansionLatency(b.cfg.KeyExpansionLatency).
		WithCipherLatency(b.cfg.CipherLatency).
		WithFault(b.cfg.Fault).
		Build("Accel")
	p.Memory = busmemory.MakeBuilder().
		WithEngine(p.Engine).
		WithBeatWidth(b.cfg.BeatWidth).
		WithCapacity(b.cfg.Capacity).
		WithLatency(b.cfg.MemLatency).
		Build("Memory")
	p.Monitor = driver.NewMonitor("Monitor", p.Engine, 4)

	p.connect()

	p.BusLatency = tracing.NewAverageTimeTracer(
		p.Engine, tracing.KindFilter(BusLatencyTaskKind))
	tracing.CollectTrace(p.Memory, p.BusLatency)

	return p, nil
}

func (p *Platform) connect() {
	cmdConn := sim.NewDirectConnection("CmdConn", p.Engine)
	cmdConn.PlugIn(p.Driver.GetPortByName("Cmd"))
	cmdConn.PlugIn(p.Accel.GetPortByName("Cmd"))
	p.Driver.SetDestination(p.Accel.GetPortByName("Cmd"))

	respConn := sim.NewDirectConnection("RespConn", p.Engine)
	respConn.PlugIn(p.Accel.GetPortByName("Resp"))
	respConn.PlugIn(p.Monitor.GetPortByName("Resp"))
	p.Accel.SetResponseDestination(p.Monitor.GetPortByName("Resp"))

	memConn := sim.NewDirectConnection("MemConn", p.Engine)
	memConn.PlugIn(p.Accel.GetPortByName("Mem"))
	memConn.PlugIn(p.Memory.GetPortByName("Top"))
	p.Accel.SetMemory(p.Memory.GetPortByName("Top"))

	p.Connections = []*sim.DirectConnection{cmdConn, respConn, memConn}
}

// AttachTracer lets the tracer collect the tasks of every component that
// reports tasks.
func (p *Platform) AttachTracer(t tracing.Tracer) {
	tracing.CollectTrace(p.Driver, t)
	tracing.CollectTrace(p.Accel, t)
	tracing.CollectTrace(p.Memory, t)
}
