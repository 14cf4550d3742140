// Package driver drives commands onto the command channel and observes the
// responses that come back.
package driver

import (
	"github.com/sarchlab/roccaes/rocc"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

// Driver issues command transactions one at a time. A command is delivered on
// the first cycle in which the other side of the channel is ready. Commands
// are never reordered or skipped.
type Driver struct {
	*sim.TickingComponent

	cmdPort   sim.Port
	dst       sim.Port
	pending   []*rocc.CmdMsg
	delivered uint64
}

// NewDriver creates a driver ticked by the engine.
func NewDriver(name string, engine sim.Engine) *Driver {
	d := &Driver{}
	d.TickingComponent = sim.NewTickingComponent(name, engine, d)
	d.cmdPort = sim.NewPort(d, 1, name+".CmdPort")
	d.AddPort("Cmd", d.cmdPort)

	return d
}

// SetDestination sets the port that receives the commands.
func (d *Driver) SetDestination(port sim.Port) {
	d.dst = port
}

// Push appends commands to the pending queue. Returning from Push does not
// mean that any command has been delivered.
func (d *Driver) Push(msgs ...*rocc.CmdMsg) {
	if d.dst == nil {
		panic("driver destination is not set")
	}

	for _, msg := range msgs {
		msg.Src = d.cmdPort
		msg.Dst = d.dst
		d.pending = append(d.pending, msg)

		tracing.TraceReqInitiate(msg, d, "")
	}
}

// Tick delivers the head of the queue if the other side is ready.
func (d *Driver) Tick() bool {
	if len(d.pending) == 0 {
		return false
	}

	if !d.cmdPort.CanSend() {
		return false
	}

	msg := d.pending[0]

	err := d.cmdPort.Send(msg)
	if err != nil {
		return false
	}

	d.pending = d.pending[1:]
	d.delivered++

	tracing.TraceReqFinalize(msg, d)

	return true
}

// Pending returns the number of commands not yet delivered.
func (d *Driver) Pending() int {
	return len(d.pending)
}

// Delivered returns the number of commands delivered since creation.
func (d *Driver) Delivered() uint64 {
	return d.delivered
}

// Idle tells if every pushed command has been delivered.
func (d *Driver) Idle() bool {
	return len(d.pending) == 0
}

// Discard drops every command that is not delivered yet and returns how many
// were dropped.
func (d *Driver) Discard() int {
	n := len(d.pending)
	d.pending = nil

	return n
}
