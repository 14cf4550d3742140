// Package config defines the options of a verification run.
package config

import (
	"errors"
	"fmt"

	"github.com/sarchlab/roccaes/accel"
	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/stimulus"
)

// Configuration errors.
var (
	ErrInvalid           = errors.New("invalid configuration")
	ErrBeatWidthMismatch = errors.New(
		"harness beat width does not match the accelerator beat width")
)

// Recorder backends.
const (
	RecorderSQLite     = "sqlite"
	RecorderClickHouse = "clickhouse"
	RecorderNone       = "none"
)

// Config holds every recognized option of a run.
type Config struct {
	KeySize     stimulus.KeySizePolicy
	Operation   stimulus.OperationPolicy
	Interrupt   stimulus.InterruptPolicy
	Destructive stimulus.DestructivePolicy

	Rounds    int
	KeyReuse  bool
	BeatWidth int
	MinBlocks int
	MaxBlocks int
	Seed      int64
	KeepGoing bool

	// Capacity is the number of words in the bus memory.
	Capacity   uint64
	MemLatency int

	MaxTicks         uint64
	SettleTicks      uint64
	MinTicksPerBlock uint64

	AccelBeatWidth      int
	KeyExpansionLatency int
	CipherLatency       int
	Fault               accel.Fault

	Recorder      string
	RecorderPath  string
	ClickHouseDSN string
	Trace         bool

	Monitor     bool
	MonitorPort int
	OpenBrowser bool

	Verbose bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		KeySize:             stimulus.KeySizeRandom,
		Operation:           stimulus.OperationRandom,
		Interrupt:           stimulus.InterruptRandom,
		Destructive:         stimulus.DestructiveRandom,
		Rounds:              10,
		KeyReuse:            false,
		BeatWidth:           4,
		MinBlocks:           1,
		MaxBlocks:           stimulus.MaxBlocks,
		Seed:                1,
		KeepGoing:           false,
		Capacity:            1 << 16,
		MemLatency:          2,
		MaxTicks:            100000,
		SettleTicks:         5,
		MinTicksPerBlock:    2,
		AccelBeatWidth:      4,
		KeyExpansionLatency: 10,
		CipherLatency:       8,
		Fault:               accel.FaultNone,
		Recorder:            RecorderSQLite,
		MonitorPort:         0,
	}
}

// StimulusParams returns the parameters of the stimulus generator.
func (c Config) StimulusParams() stimulus.Params {
	return stimulus.Params{
		KeySize:     c.KeySize,
		Operation:   c.Operation,
		Interrupt:   c.Interrupt,
		Destructive: c.Destructive,
		BeatWidth:   c.BeatWidth,
		Capacity:    c.Capacity,
		MinBlocks:   c.MinBlocks,
		MaxBlocks:   c.MaxBlocks,
	}
}

// Validate reports every problem of the configuration. The returned error
// matches ErrInvalid, and also ErrBeatWidthMismatch if the beat widths
// disagree.
func (c Config) Validate() error {
	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Rounds >= 1, "rounds must be at least 1, got %d", c.Rounds)
	check(validBeatWidth(c.BeatWidth),
		"beat width must be 4, 8 or 16 bytes, got %d", c.BeatWidth)
	check(validBeatWidth(c.AccelBeatWidth),
		"accelerator beat width must be 4, 8 or 16 bytes, got %d",
		c.AccelBeatWidth)
	check(c.MinBlocks >= 1 && c.MinBlocks <= c.MaxBlocks &&
		c.MaxBlocks <= stimulus.MaxBlocks,
		"block range [%d, %d] must lie in [1, %d]",
		c.MinBlocks, c.MaxBlocks, stimulus.MaxBlocks)
	check(c.MaxTicks > 0, "max ticks must be positive")
	check(c.MemLatency >= 1, "memory latency must be at least 1 cycle")
	check(c.KeyExpansionLatency >= 1 && c.CipherLatency >= 1,
		"accelerator latencies must be at least 1 cycle")
	check(c.Recorder == RecorderSQLite ||
		c.Recorder == RecorderClickHouse ||
		c.Recorder == RecorderNone,
		"unknown recorder %q", c.Recorder)
	check(c.Recorder != RecorderClickHouse || c.ClickHouseDSN != "",
		"the clickhouse recorder needs a DSN")
	check(c.MonitorPort >= 0 && c.MonitorPort < 65536,
		"monitor port %d is out of range", c.MonitorPort)

	if validBeatWidth(c.BeatWidth) {
		minWords := minCapacityWords(c.BeatWidth)
		check(c.Capacity >= minWords,
			"memory capacity must be at least %d words, got %d",
			minWords, c.Capacity)
	}

	if c.BeatWidth != c.AccelBeatWidth {
		errs = append(errs, fmt.Errorf("%d != %d: %w",
			c.BeatWidth, c.AccelBeatWidth, ErrBeatWidthMismatch))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func validBeatWidth(bw int) bool {
	return bw == 4 || bw == 8 || bw == 16
}

func minCapacityWords(beatWidth int) uint64 {
	keyWords := mem.KeyRegionBytes / beatWidth
	dataWords := stimulus.MaxBlocks * mem.WordsPerBlock(beatWidth)

	return uint64(4 * (keyWords + 2*dataWords))
}
