// Package busmemory provides the memory that the accelerator reads and writes
// over the bus.
package busmemory

import (
	"bytes"
	"log"
	"reflect"

	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

// A WriteViolation records a bus write that landed outside the range declared
// with GuardWrites.
type WriteViolation struct {
	Address uint64
	Cycle   uint64
}

type transaction struct {
	req        mem.AccessReq
	data       []byte
	readyCycle uint64
}

type writeGuard struct {
	base  uint64
	words uint64
}

func (g *writeGuard) allows(addr uint64) bool {
	return addr >= g.base && addr < g.base+g.words
}

// Comp is a memory that responds to every request after a fixed number of
// cycles.
//
// Writes are applied to the storage when the request is accepted, so the
// storage always reflects the order in which the requester issued the
// writes. Responses are returned in the same order.
type Comp struct {
	*sim.TickingComponent

	topPort sim.Port
	storage *mem.Storage
	latency int
	width   int

	inflight   []*transaction
	guard      *writeGuard
	violations []WriteViolation
}

// Tick responds to completed requests and accepts new ones.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.respond() || madeProgress
	madeProgress = c.accept() || madeProgress

	return madeProgress
}

func (c *Comp) respond() bool {
	madeProgress := false
	now := c.CurrentCycle()

	for len(c.inflight) > 0 {
		trans := c.inflight[0]
		if trans.readyCycle > now {
			break
		}

		rsp := c.responseFor(trans)

		err := c.topPort.Send(rsp)
		if err != nil {
			break
		}

		tracing.TraceReqComplete(trans.req, c)

		c.inflight = c.inflight[1:]
		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) responseFor(trans *transaction) sim.Msg {
	switch req := trans.req.(type) {
	case *mem.ReadReq:
		return mem.DataReadyRspBuilder{}.
			WithSrc(c.topPort).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithData(trans.data).
			Build()
	case *mem.WriteReq:
		return mem.WriteDoneRspBuilder{}.
			WithSrc(c.topPort).
			WithDst(req.Src).
			WithRspTo(req.ID).
			Build()
	default:
		log.Panicf("cannot respond to request of type %s", reflect.TypeOf(req))
	}

	return nil
}

func (c *Comp) accept() bool {
	madeProgress := false

	for i := 0; i < c.width; i++ {
		msg := c.topPort.RetrieveIncoming()
		if msg == nil {
			break
		}

		tracing.TraceReqReceive(msg, c)

		switch req := msg.(type) {
		case *mem.ReadReq:
			c.handleReadReq(req)
		case *mem.WriteReq:
			c.handleWriteReq(req)
		default:
			log.Panicf("cannot handle request of type %s", reflect.TypeOf(msg))
		}

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) handleReadReq(req *mem.ReadReq) {
	data, err := c.storage.Read(req.Address)
	if err != nil {
		log.Panic(err)
	}

	c.track(req, data)
}

func (c *Comp) handleWriteReq(req *mem.WriteReq) {
	if c.guard != nil && !c.guard.allows(req.Address) {
		c.violations = append(c.violations, WriteViolation{
			Address: req.Address,
			Cycle:   c.CurrentCycle(),
		})
	}

	err := c.storage.Write(req.Address, req.Data)
	if err != nil {
		log.Panic(err)
	}

	c.track(req, nil)
}

func (c *Comp) track(req mem.AccessReq, data []byte) {
	c.inflight = append(c.inflight, &transaction{
		req:        req,
		data:       data,
		readyCycle: c.CurrentCycle() + uint64(c.latency),
	})
}

// Preload writes a word outside the bus. It is used to program the initial
// state of a round.
func (c *Comp) Preload(addr uint64, value []byte) error {
	return c.storage.Write(addr, value)
}

// PreloadAll writes all the words outside the bus.
func (c *Comp) PreloadAll(words []mem.Word) error {
	for _, w := range words {
		err := c.Preload(w.Address, w.Value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Reset clears the storage, the in-flight requests, the write guard, and the
// recorded violations.
func (c *Comp) Reset() {
	c.storage.Reset()
	c.inflight = nil
	c.guard = nil
	c.violations = nil
	c.topPort.IncomingBuffer().Clear()
}

// ReadWord returns the current value of a word.
func (c *Comp) ReadWord(addr uint64) ([]byte, error) {
	return c.storage.Read(addr)
}

// Storage returns the storage that backs the memory.
func (c *Comp) Storage() *mem.Storage {
	return c.storage
}

// BeatWidth returns the number of bytes in a word.
func (c *Comp) BeatWidth() int {
	return c.storage.BeatWidth()
}

// NumInflight returns the number of requests accepted but not yet responded.
func (c *Comp) NumInflight() int {
	return len(c.inflight)
}

// GuardWrites declares the only words that bus writes may target until the
// next Reset. Writes outside the range are still applied but recorded as
// violations.
func (c *Comp) GuardWrites(base uint64, words uint64) {
	c.guard = &writeGuard{base: base, words: words}
}

// Violations returns the writes that landed outside the guarded range.
func (c *Comp) Violations() []WriteViolation {
	return c.violations
}

// FinishedWriting tells if every word of the blockCount blocks starting at
// baseAddr differs from the corresponding word of the sentinel block.
func (c *Comp) FinishedWriting(
	baseAddr uint64,
	blockCount int,
	sentinel []byte,
) bool {
	sentinelWords := mem.BytesToWords(sentinel, c.BeatWidth())
	wordsPerBlock := uint64(len(sentinelWords))

	for block := 0; block < blockCount; block++ {
		blockBase := baseAddr + uint64(block)*wordsPerBlock

		for i, want := range sentinelWords {
			got, err := c.storage.Read(blockBase + uint64(i))
			if err != nil {
				return false
			}

			if bytes.Equal(got, want) {
				return false
			}
		}
	}

	return true
}
