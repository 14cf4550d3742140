// Package completion decides when the accelerator has finished a round.
package completion

import (
	"errors"
	"fmt"
)

// Errors reported by the detector. They all mean that the round failed.
var (
	ErrPrematureCompletion = errors.New("busy is not held after issuing the round")
	ErrBusyAfterCompletion = errors.New("busy is still asserted after completion")
	ErrTimeout             = errors.New("completion is not observed in time")
)

// State is the state of the detector.
type State int

// States
const (
	StateIssued State = iota
	StateWaitBusyHeld
	StateWaitCompletion
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIssued:
		return "Issued"
	case StateWaitBusyHeld:
		return "WaitBusyHeld"
	case StateWaitCompletion:
		return "WaitCompletion"
	case StateDone:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// A Clock can advance the simulation by one cycle.
type Clock interface {
	Tick()
	CurrentCycle() uint64
}

// StatusLines are the status outputs of the accelerator.
type StatusLines interface {
	Busy() bool
	Interrupt() bool
}

// WriteProgress tells whether the destination has been fully overwritten.
type WriteProgress interface {
	FinishedWriting(baseAddr uint64, blockCount int, sentinel []byte) bool
}

// A Poller issues the final status poll of a round.
type Poller interface {
	Poll()
}

// DefaultSettleTicks is the number of cycles to wait after the writes are
// observed before checking that the accelerator is idle.
const DefaultSettleTicks = 5

// Params describes the round whose completion is detected.
type Params struct {
	InterruptEnable bool
	DstAddr         uint64
	BlockCount      int
	Sentinel        []byte

	// Destructive makes the polling policy wait for busy to drop. The
	// pre-filled destination of such a round does not show progress.
	Destructive bool

	// MaxTicks bounds every wait.
	MaxTicks uint64

	// SettleTicks is the margin used by the polling policy.
	SettleTicks uint64
}

// Detector walks the completion state machine of a round.
type Detector struct {
	clock    Clock
	lines    StatusLines
	progress WriteProgress
	poller   Poller
	params   Params

	state         State
	ticks         uint64
	interrupts    int
	lastInterrupt bool
}

// NewDetector creates a detector in the Issued state.
func NewDetector(
	clock Clock,
	lines StatusLines,
	progress WriteProgress,
	poller Poller,
	params Params,
) *Detector {
	if params.MaxTicks == 0 {
		panic("max ticks must be positive")
	}

	return &Detector{
		clock:    clock,
		lines:    lines,
		progress: progress,
		poller:   poller,
		params:   params,
		state:    StateIssued,
	}
}

// State returns the current state.
func (d *Detector) State() State {
	return d.state
}

// Ticks returns the number of cycles the detector has advanced.
func (d *Detector) Ticks() uint64 {
	return d.ticks
}

// Interrupts returns the number of interrupt rising edges observed.
func (d *Detector) Interrupts() int {
	return d.interrupts
}

// Run steps until the detector is done or fails.
func (d *Detector) Run() error {
	for d.state != StateDone {
		err := d.Step()
		if err != nil {
			return err
		}
	}

	return nil
}

// Step advances the detector by one state. A failed step leaves the state
// unchanged.
func (d *Detector) Step() error {
	switch d.state {
	case StateIssued:
		d.lastInterrupt = d.lines.Interrupt()
		d.state = StateWaitBusyHeld
	case StateWaitBusyHeld:
		if !d.lines.Busy() {
			return fmt.Errorf("cycle %d: %w",
				d.clock.CurrentCycle(), ErrPrematureCompletion)
		}

		d.state = StateWaitCompletion
	case StateWaitCompletion:
		err := d.waitCompletion()
		if err != nil {
			return err
		}

		d.state = StateDone
		d.poller.Poll()
	case StateDone:
	}

	return nil
}

func (d *Detector) waitCompletion() error {
	var err error

	switch {
	case d.params.InterruptEnable:
		err = d.waitForInterrupt()
	case d.params.Destructive:
		err = d.waitForRelease()
	default:
		err = d.waitForWrites()
	}

	if err != nil {
		return err
	}

	if d.lines.Busy() {
		return fmt.Errorf("cycle %d: %w",
			d.clock.CurrentCycle(), ErrBusyAfterCompletion)
	}

	return nil
}

func (d *Detector) waitForInterrupt() error {
	err := d.tickUntil("interrupt", d.lines.Interrupt)
	if err != nil {
		return err
	}

	return d.tickN(1)
}

func (d *Detector) waitForWrites() error {
	err := d.tickUntil("destination writes", func() bool {
		return d.progress.FinishedWriting(
			d.params.DstAddr, d.params.BlockCount, d.params.Sentinel)
	})
	if err != nil {
		return err
	}

	return d.tickN(d.params.SettleTicks)
}

func (d *Detector) waitForRelease() error {
	err := d.tickUntil("busy release", func() bool {
		return !d.lines.Busy()
	})
	if err != nil {
		return err
	}

	return d.tickN(d.params.SettleTicks)
}

func (d *Detector) tickUntil(what string, pred func() bool) error {
	for !pred() {
		if d.ticks >= d.params.MaxTicks {
			return fmt.Errorf("waiting for %s for %d ticks: %w",
				what, d.ticks, ErrTimeout)
		}

		d.tick()
	}

	return nil
}

func (d *Detector) tickN(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if d.ticks >= d.params.MaxTicks {
			return fmt.Errorf("settling for %d ticks: %w", d.ticks, ErrTimeout)
		}

		d.tick()
	}

	return nil
}

func (d *Detector) tick() {
	d.clock.Tick()
	d.ticks++

	interrupt := d.lines.Interrupt()
	if interrupt && !d.lastInterrupt {
		d.interrupts++
	}

	d.lastInterrupt = interrupt
}
