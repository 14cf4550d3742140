package harness

import (
	"github.com/sarchlab/roccaes/datarecording"
	"github.com/sarchlab/roccaes/sim"
)

// RoundResultsTableName is the table that holds one row per round.
const RoundResultsTableName = "round_results"

type roundEntry struct {
	Round           int
	KeySizeBits     int
	Direction       string
	InterruptEnable bool
	Destructive     bool
	KeyReused       bool
	Blocks          int
	Cycles          uint64
	Passed          bool
	Failure         string
	Detail          string
	Mismatches      int
}

// RoundRecorder is a hook that writes every finished round into a data
// recorder.
type RoundRecorder struct {
	recorder datarecording.DataRecorder
}

// NewRoundRecorder creates the round_results table on the recorder.
func NewRoundRecorder(recorder datarecording.DataRecorder) *RoundRecorder {
	recorder.CreateTable(RoundResultsTableName, roundEntry{})

	return &RoundRecorder{recorder: recorder}
}

// Func records the result carried by a round-end hook.
func (h *RoundRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosRoundEnd {
		return
	}

	res := ctx.Item.(RoundResult)

	h.recorder.InsertData(RoundResultsTableName, roundEntry{
		Round:           res.Round,
		KeySizeBits:     res.KeySizeBits,
		Direction:       res.Direction.String(),
		InterruptEnable: res.InterruptEnable,
		Destructive:     res.Destructive,
		KeyReused:       res.KeyReused,
		Blocks:          res.BlocksProcessed,
		Cycles:          res.CyclesElapsed,
		Passed:          res.Passed,
		Failure:         res.Failure.String(),
		Detail:          res.Detail,
		Mismatches:      len(res.Mismatches),
	})
}
