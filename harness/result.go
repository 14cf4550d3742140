package harness

import (
	"fmt"
	"io"

	"github.com/sarchlab/roccaes/oracle"
	"github.com/sarchlab/roccaes/rocc"
)

// FailureKind classifies a failed round.
type FailureKind int

// Failure kinds
const (
	FailureNone FailureKind = iota
	FailureProtocol
	FailureMismatch
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureProtocol:
		return "protocol"
	case FailureMismatch:
		return "mismatch"
	case FailureTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// RoundResult is the outcome of one round.
type RoundResult struct {
	Round int

	KeySizeBits     int
	Direction       rocc.Direction
	InterruptEnable bool
	Destructive     bool
	KeyReused       bool

	BlocksProcessed int
	CyclesElapsed   uint64
	Passed          bool

	// Interrupts is the number of interrupt pulses seen while waiting for
	// completion.
	Interrupts int

	Failure    FailureKind
	Detail     string
	Responses  []rocc.Response
	Mismatches []oracle.Mismatch
}

// Report aggregates the results of a run.
type Report struct {
	Rounds      int
	Passes      int
	Failures    int
	TotalBlocks int
	TotalCycles uint64

	// AvgBusLatency is the average number of cycles of a bus transaction.
	AvgBusLatency float64

	Results []RoundResult
}

// Passed tells if every round passed. A run with no rounds did not pass.
func (r Report) Passed() bool {
	return r.Rounds > 0 && r.Failures == 0
}

// CyclesPerBlock returns the average number of cycles spent per block.
func (r Report) CyclesPerBlock() float64 {
	if r.TotalBlocks == 0 {
		return 0
	}

	return float64(r.TotalCycles) / float64(r.TotalBlocks)
}

func (r *Report) add(res RoundResult) {
	r.Rounds++
	r.TotalBlocks += res.BlocksProcessed
	r.TotalCycles += res.CyclesElapsed

	if res.Passed {
		r.Passes++
	} else {
		r.Failures++
	}

	r.Results = append(r.Results, res)
}

// Print writes a human-readable summary.
func (r Report) Print(w io.Writer) {
	for _, res := range r.Results {
		if res.Passed {
			continue
		}

		fmt.Fprintf(w, "round %d failed (%s): %s\n",
			res.Round, res.Failure, res.Detail)

		for _, m := range res.Mismatches {
			fmt.Fprintf(w, "\t%s\n", m)
		}
	}

	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}

	fmt.Fprintf(w, "%s: %d rounds, %d passed, %d failed\n",
		status, r.Rounds, r.Passes, r.Failures)
	fmt.Fprintf(w, "%d blocks in %d cycles, %.2f cycles per block\n",
		r.TotalBlocks, r.TotalCycles, r.CyclesPerBlock())
	fmt.Fprintf(w, "average bus transaction latency: %.2f cycles\n",
		r.AvgBusLatency)
}
