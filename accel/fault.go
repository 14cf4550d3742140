package accel

import (
	"fmt"
	"strings"
)

// Fault selects a misbehavior of the accelerator model. Faults let the
// harness prove that it reports every kind of failure.
type Fault int

// Faults
const (
	// FaultNone makes the accelerator behave correctly.
	FaultNone Fault = iota

	// FaultNoOp makes the accelerator skip all the destination writes.
	FaultNoOp

	// FaultPrematureIdle keeps the busy line low while working.
	FaultPrematureIdle

	// FaultStrayWrite adds a write to the word right below the destination.
	FaultStrayWrite

	// FaultNoInterrupt never raises the interrupt.
	FaultNoInterrupt

	// FaultSwapByteOrder writes each beat without reversing the cipher bytes.
	FaultSwapByteOrder

	// FaultStuckBusy never lowers the busy line after the first command.
	FaultStuckBusy

	// FaultRepeatStatus answers every status poll taken while idle twice.
	// The second response follows one cycle later.
	FaultRepeatStatus
)

var faultNames = map[Fault]string{
	FaultNone:          "none",
	FaultNoOp:          "noop",
	FaultPrematureIdle: "premature-idle",
	FaultStrayWrite:    "stray-write",
	FaultNoInterrupt:   "no-interrupt",
	FaultSwapByteOrder: "swap-byte-order",
	FaultStuckBusy:     "stuck-busy",
	FaultRepeatStatus:  "repeat-status",
}

func (f Fault) String() string {
	name, ok := faultNames[f]
	if !ok {
		return fmt.Sprintf("Fault(%d)", int(f))
	}

	return name
}

// ParseFault converts a fault name into a Fault.
func ParseFault(s string) (Fault, error) {
	for f, name := range faultNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}

	return FaultNone, fmt.Errorf("unknown fault %q", s)
}
