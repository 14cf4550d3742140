// Package trace provides a tracer that logs the bus transactions handled by
// the memory.
package trace

import (
	"log"

	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

// A Tracer is a hook that writes one line when the memory accepts a bus
// transaction and one line when it responds.
type Tracer struct {
	timeTeller sim.TimeTeller
	logger     *log.Logger
	inflight   map[string]uint64
}

// NewTracer creates a new Tracer.
func NewTracer(logger *log.Logger, timeTeller sim.TimeTeller) *Tracer {
	return &Tracer{
		timeTeller: timeTeller,
		logger:     logger,
		inflight:   make(map[string]uint64),
	}
}

// StartTask logs the start of a transaction.
func (t *Tracer) StartTask(task tracing.Task) {
	if task.Kind != "req_in" {
		return
	}

	cycle := t.timeTeller.CurrentCycle()

	switch req := task.Detail.(type) {
	case *mem.ReadReq:
		t.logger.Printf("start, %d, %s, %s, read, 0x%x\n",
			cycle, task.Location, task.ID, req.Address)
	case *mem.WriteReq:
		t.logger.Printf("start, %d, %s, %s, write, 0x%x, %x\n",
			cycle, task.Location, task.ID, req.Address, req.Data)
	default:
		return
	}

	t.inflight[task.ID] = cycle
}

// StepTask does nothing.
func (t *Tracer) StepTask(_ tracing.Task) {
}

// EndTask logs the end of a transaction together with its latency.
func (t *Tracer) EndTask(task tracing.Task) {
	start, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	cycle := t.timeTeller.CurrentCycle()
	t.logger.Printf("end, %d, %s, %d\n", cycle, task.ID, cycle-start)
}

// NumInflight returns the number of transactions that are started but not
// ended.
func (t *Tracer) NumInflight() int {
	return len(t.inflight)
}
