package driver

import (
	"fmt"

	"github.com/sarchlab/roccaes/rocc"
	"github.com/sarchlab/roccaes/sim"
)

// Monitor records every response that arrives on the response channel in
// arrival order. It never filters.
type Monitor struct {
	*sim.TickingComponent

	respPort  sim.Port
	responses []rocc.Response
	errors    []error
}

// NewMonitor creates a monitor ticked by the engine.
func NewMonitor(name string, engine sim.Engine, bufSize int) *Monitor {
	m := &Monitor{}
	m.TickingComponent = sim.NewTickingComponent(name, engine, m)
	m.respPort = sim.NewPort(m, bufSize, name+".RespPort")
	m.AddPort("Resp", m.respPort)

	return m
}

// Tick takes every response out of the port.
func (m *Monitor) Tick() bool {
	madeProgress := false

	for {
		msg := m.respPort.RetrieveIncoming()
		if msg == nil {
			break
		}

		madeProgress = true
		m.record(msg)
	}

	return madeProgress
}

func (m *Monitor) record(msg sim.Msg) {
	respMsg, ok := msg.(*rocc.RespMsg)
	if !ok {
		m.errors = append(m.errors,
			fmt.Errorf("cycle %d: unexpected %T on the response channel",
				m.CurrentCycle(), msg))
		return
	}

	resp, err := rocc.DecodeResponse(respMsg)
	if err != nil {
		m.errors = append(m.errors,
			fmt.Errorf("cycle %d: %w", m.CurrentCycle(), err))
		return
	}

	m.responses = append(m.responses, resp)
}

// Drain returns the responses recorded so far and forgets them.
func (m *Monitor) Drain() []rocc.Response {
	responses := m.responses
	m.responses = nil

	return responses
}

// Clear discards the recorded responses and errors.
func (m *Monitor) Clear() {
	m.responses = nil
	m.errors = nil
}

// Len returns the number of responses recorded.
func (m *Monitor) Len() int {
	return len(m.responses)
}

// Errors returns the responses that could not be decoded.
func (m *Monitor) Errors() []error {
	return m.errors
}
