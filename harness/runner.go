package harness

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"

	"github.com/sarchlab/roccaes/completion"
	"github.com/sarchlab/roccaes/config"
	"github.com/sarchlab/roccaes/driver"
	"github.com/sarchlab/roccaes/oracle"
	"github.com/sarchlab/roccaes/rocc"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/stimulus"
)

// HookPosRoundStart is triggered before a round programs the memory. The hook
// item is the stimulus.Case of the round.
var HookPosRoundStart = &sim.HookPos{Name: "RoundStart"}

// HookPosRoundEnd is triggered after a round is checked. The hook item is the
// RoundResult.
var HookPosRoundEnd = &sim.HookPos{Name: "RoundEnd"}

// ResponseMarginTicks is how long the runner keeps listening after the third
// status response. Responses that arrive in this window still count toward
// the round.
const ResponseMarginTicks = 4

// Errors that fail a round in addition to the completion errors.
var (
	ErrInterruptCount      = errors.New("interrupt must be asserted exactly once")
	ErrUnexpectedInterrupt = errors.New("interrupt asserted while disabled")
	ErrStrayWrite          = errors.New("write outside the destination range")
	ErrMismatch            = errors.New("destination differs from the reference")
)

// Runner drives the rounds of a run on a platform.
type Runner struct {
	*sim.HookableBase

	platform *Platform
	cfg      config.Config
	gen      *stimulus.Generator
	logger   *log.Logger

	keyState stimulus.KeyState

	mu     sync.Mutex
	report Report
}

// NewRunner creates a runner. The random sequence is seeded from the
// configuration.
func NewRunner(platform *Platform, cfg config.Config) *Runner {
	return &Runner{
		HookableBase: sim.NewHookableBase(),
		platform:     platform,
		cfg:          cfg,
		gen:          stimulus.NewGenerator(rand.New(rand.NewSource(cfg.Seed))),
		logger:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Name returns the name of the runner.
func (r *Runner) Name() string {
	return "Runner"
}

// SetLogger replaces the logger that reports failed rounds and, when
// verbose, every round.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Run executes the configured number of rounds. Unless KeepGoing is set, it
// stops after the first failed round.
func (r *Runner) Run() Report {
	for round := 0; round < r.cfg.Rounds; round++ {
		res := r.runRound(round)
		r.record(res)
		r.logRound(res)

		if !res.Passed && !r.cfg.KeepGoing {
			break
		}
	}

	return r.Report()
}

// Progress returns the number of rounds finished and planned.
func (r *Runner) Progress() (done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.report.Rounds, r.cfg.Rounds
}

// Report returns a snapshot of the results so far.
func (r *Runner) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := r.report
	report.Results = append([]RoundResult(nil), r.report.Results...)
	report.AvgBusLatency = r.platform.BusLatency.AverageCycles()

	return report
}

func (r *Runner) record(res RoundResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.report.add(res)
}

func (r *Runner) logRound(res RoundResult) {
	if !res.Passed {
		r.logger.Printf("round %d failed (%s): %s",
			res.Round, res.Failure, res.Detail)
		return
	}

	if r.cfg.Verbose {
		r.logger.Printf("round %d passed: %d-bit %s, %d blocks, %d cycles",
			res.Round, res.KeySizeBits, res.Direction,
			res.BlocksProcessed, res.CyclesElapsed)
	}
}

func (r *Runner) runRound(round int) RoundResult {
	engine := r.platform.Engine

	reuse := r.cfg.KeyReuse && r.keyState.Valid

	var carried *stimulus.KeyState
	if reuse {
		carried = &r.keyState
	}

	c := r.gen.Generate(r.cfg.StimulusParams(), carried)

	r.InvokeHook(sim.HookCtx{
		Domain: r,
		Cycle:  engine.CurrentCycle(),
		Pos:    HookPosRoundStart,
		Item:   c,
	})

	res := RoundResult{
		Round:           round,
		KeySizeBits:     c.KeySizeBits,
		Direction:       c.Direction,
		InterruptEnable: c.InterruptEnable,
		Destructive:     c.Destructive,
		KeyReused:       reuse,
		BlocksProcessed: c.BlockCount(),
	}

	start := engine.CurrentCycle()
	kind, err := r.execute(c, reuse, &res)
	res.CyclesElapsed = engine.CurrentCycle() - start

	if err != nil {
		res.Failure = kind
		res.Detail = err.Error()
		r.keyState = stimulus.KeyState{}
		r.quiesce()
	} else {
		res.Passed = true
		r.keyState = c.KeyState()
	}

	r.InvokeHook(sim.HookCtx{
		Domain: r,
		Cycle:  engine.CurrentCycle(),
		Pos:    HookPosRoundEnd,
		Item:   res,
	})

	return res
}

func (r *Runner) execute(
	c stimulus.Case,
	reuse bool,
	res *RoundResult,
) (FailureKind, error) {
	p := r.platform

	p.Memory.Reset()
	p.Monitor.Clear()

	err := p.Memory.PreloadAll(c.InitialMemory())
	if err != nil {
		return FailureProtocol, fmt.Errorf("programming memory: %w", err)
	}

	p.Memory.GuardWrites(c.DstAddr, c.DstWords())

	for _, cmd := range c.Commands(reuse) {
		p.Driver.Push(rocc.Encode(cmd))
	}

	_, err = p.Engine.TickUntil(p.Driver.Idle, r.cfg.MaxTicks)
	if err != nil {
		return FailureTimeout, fmt.Errorf("delivering commands: %w", err)
	}

	p.Engine.TickN(uint64(c.BlockCount()) * r.cfg.MinTicksPerBlock)

	detector := completion.NewDetector(
		p.Engine, p.Accel, p.Memory, finalPoller{p.Driver},
		completion.Params{
			InterruptEnable: c.InterruptEnable,
			DstAddr:         c.DstAddr,
			BlockCount:      c.BlockCount(),
			Sentinel:        c.Sentinel(),
			Destructive:     c.Destructive,
			MaxTicks:        r.cfg.MaxTicks,
			SettleTicks:     r.cfg.SettleTicks,
		})

	err = detector.Run()
	res.Interrupts = detector.Interrupts()
	if err != nil {
		return classify(err), fmt.Errorf("in state %s: %w",
			detector.State(), err)
	}

	_, err = p.Engine.TickUntil(func() bool {
		return p.Monitor.Len() >= len(completion.ExpectedPolls)
	}, r.cfg.MaxTicks)
	if err != nil {
		return FailureTimeout, fmt.Errorf("waiting for poll responses: %w", err)
	}

	p.Engine.TickN(ResponseMarginTicks)

	return r.checkRound(c, res)
}

func (r *Runner) checkRound(
	c stimulus.Case,
	res *RoundResult,
) (FailureKind, error) {
	p := r.platform

	res.Responses = p.Monitor.Drain()

	if errs := p.Monitor.Errors(); len(errs) > 0 {
		return FailureProtocol, errors.Join(errs...)
	}

	err := completion.CheckPollResponses(res.Responses)
	if err != nil {
		return FailureProtocol, err
	}

	err = checkInterrupts(c.InterruptEnable, res.Interrupts)
	if err != nil {
		return FailureProtocol, err
	}

	if v := p.Memory.Violations(); len(v) > 0 {
		return FailureMismatch, fmt.Errorf("%w: address %#x at cycle %d",
			ErrStrayWrite, v[0].Address, v[0].Cycle)
	}

	result := oracle.Check(oracle.CheckInput{
		KeySizeBits: c.KeySizeBits,
		Key:         c.Key,
		Source:      c.Source,
		DstAddr:     c.DstAddr,
		Direction:   c.Direction,
		BeatWidth:   c.BeatWidth,
	}, p.Memory.Storage())
	res.Mismatches = result.Mismatches

	if !result.Passed {
		return FailureMismatch, fmt.Errorf("%w: %d of %d blocks",
			ErrMismatch, len(result.Mismatches), c.BlockCount())
	}

	return FailureNone, nil
}

func checkInterrupts(enabled bool, count int) error {
	if enabled && count != 1 {
		return fmt.Errorf("%w: observed %d", ErrInterruptCount, count)
	}

	if !enabled && count != 0 {
		return fmt.Errorf("%w: observed %d", ErrUnexpectedInterrupt, count)
	}

	return nil
}

func classify(err error) FailureKind {
	if errors.Is(err, completion.ErrTimeout) ||
		errors.Is(err, sim.ErrTickBudgetExceeded) {
		return FailureTimeout
	}

	return FailureProtocol
}

// quiesce brings the platform back to a quiet state after a failed round so
// that the next round starts clean.
func (r *Runner) quiesce() {
	p := r.platform
	cmdBuf := p.Accel.GetPortByName("Cmd").IncomingBuffer()

	p.Driver.Discard()

	_, err := p.Engine.TickUntil(func() bool {
		return cmdBuf.Size() == 0 &&
			p.Accel.Idle() &&
			p.Memory.NumInflight() == 0
	}, r.cfg.MaxTicks)
	if err != nil {
		r.logger.Printf("accelerator did not settle: %v", err)
	}

	p.Monitor.Clear()
}

type finalPoller struct {
	driver *driver.Driver
}

func (p finalPoller) Poll() {
	p.driver.Push(rocc.Encode(rocc.StatusPoll{Function: rocc.StatusBusy}))
}
