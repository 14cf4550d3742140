package completion

import (
	"errors"
	"fmt"

	"github.com/sarchlab/roccaes/rocc"
)

// Errors reported when checking the status polls of a round.
var (
	ErrPollCount    = errors.New("a round must observe exactly 3 poll responses")
	ErrPollSequence = errors.New("poll responses must be busy, busy, idle")
)

// ExpectedPolls is the response sequence of a correct round.
var ExpectedPolls = []rocc.Response{{Status: 1}, {Status: 1}, {Status: 0}}

// CheckPollResponses verifies the responses observed in a round.
func CheckPollResponses(responses []rocc.Response) error {
	if len(responses) != len(ExpectedPolls) {
		return fmt.Errorf("got %d: %w", len(responses), ErrPollCount)
	}

	for i, r := range responses {
		if r != ExpectedPolls[i] {
			return fmt.Errorf("got %v: %w", responses, ErrPollSequence)
		}
	}

	return nil
}
