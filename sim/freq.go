package sim

import (
	"log"
	"math"
)

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(time VTimeInSec) uint64 {
	if math.IsNaN(float64(time)) {
		log.Panic("invalid time")
	}

	return uint64(math.Round(float64(time) * float64(f)))
}

// CyclesToTime returns the time of the given cycle, counting from time 0.
func (f Freq) CyclesToTime(cycle uint64) VTimeInSec {
	return VTimeInSec(float64(cycle) / float64(f))
}

// NCyclesLater returns the time after N cycles
//
// This function will always return a time of an integer number of cycles
func (f Freq) NCyclesLater(n int, now VTimeInSec) VTimeInSec {
	if n < 0 {
		log.Panic("cannot go back in time")
	}

	return f.CyclesToTime(f.Cycle(now) + uint64(n))
}
