// Package accel provides a behavioral model of the AES accelerator. It only
// models the command, bus, and status protocol of the accelerator and uses
// the reference cipher for the arithmetic.
package accel

import (
	"log"
	"reflect"

	"github.com/sarchlab/roccaes/mem"
	"github.com/sarchlab/roccaes/oracle"
	"github.com/sarchlab/roccaes/rocc"
	"github.com/sarchlab/roccaes/sim"
	"github.com/sarchlab/roccaes/tracing"
)

type jobKind int

const (
	jobKeyLoad jobKind = iota
	jobCipher
)

type stage int

const (
	stageRead stage = iota
	stageCompute
	stageWrite
	stageDrain
)

type job struct {
	kind  jobKind
	stage stage

	keyBits int

	direction  rocc.Direction
	blockCount int
	irq        bool
	block      int

	toRead    []uint64
	nextRead  int
	readsDone int
	words     [][]byte
	readIndex map[string]int

	countdown int

	toWrite   []mem.Word
	nextWrite int
}

// Comp is the accelerator model.
//
// Status polls are answered as soon as they reach the head of the command
// buffer. Any other command waits at the head until the accelerator is idle,
// which back-pressures the command channel.
type Comp struct {
	*sim.TickingComponent

	cmdPort  sim.Port
	respPort sim.Port
	memPort  sim.Port
	respDst  sim.Port
	memDst   sim.Port

	beatWidth           int
	keyExpansionLatency int
	cipherLatency       int
	fault               Fault

	keyBits int
	key     []byte
	srcAddr uint64
	dstAddr uint64

	job               *job
	outstandingWrites int
	finishing         bool
	busy              bool
	interrupt         bool
	badCommands       int

	repeat *rocc.RespMsg
}

// SetResponseDestination sets the port that receives status responses.
func (c *Comp) SetResponseDestination(port sim.Port) {
	c.respDst = port
}

// SetMemory sets the port of the memory that the accelerator accesses.
func (c *Comp) SetMemory(port sim.Port) {
	c.memDst = port
}

// Busy returns the value of the busy status line.
func (c *Comp) Busy() bool {
	return c.busy
}

// Interrupt returns the value of the interrupt line.
func (c *Comp) Interrupt() bool {
	return c.interrupt
}

// BeatWidth returns the number of bytes moved per bus transaction.
func (c *Comp) BeatWidth() int {
	return c.beatWidth
}

// BadCommands returns the number of commands that could not be decoded.
func (c *Comp) BadCommands() int {
	return c.badCommands
}

// Tick updates the status lines, collects memory responses, moves the current
// job forward, and takes the next command.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.updateStatusLines() || madeProgress
	madeProgress = c.sendRepeat() || madeProgress
	madeProgress = c.handleMemRsp() || madeProgress
	madeProgress = c.advanceJob() || madeProgress
	madeProgress = c.handleCommand() || madeProgress

	return madeProgress
}

func (c *Comp) updateStatusLines() bool {
	madeProgress := false

	if c.interrupt {
		c.interrupt = false
		madeProgress = true
	}

	if c.finishing {
		c.finishing = false
		if c.fault != FaultStuckBusy {
			c.busy = false
		}

		madeProgress = true
	}

	return madeProgress
}

// Idle tells if the accelerator has no job in progress and can take a new
// command.
func (c *Comp) Idle() bool {
	return c.job == nil && !c.finishing
}

func (c *Comp) handleCommand() bool {
	msg := c.cmdPort.PeekIncoming()
	if msg == nil {
		return false
	}

	cmdMsg, ok := msg.(*rocc.CmdMsg)
	if !ok {
		log.Panicf("cannot handle message of type %s on the command port",
			reflect.TypeOf(msg))
	}

	cmd, err := rocc.DecodeCommand(cmdMsg)
	if err != nil {
		c.cmdPort.RetrieveIncoming()
		c.badCommands++

		return true
	}

	if poll, ok := cmd.(rocc.StatusPoll); ok {
		return c.answerPoll(cmdMsg, poll)
	}

	if !c.Idle() {
		return false
	}

	c.cmdPort.RetrieveIncoming()
	c.start(cmd)

	return true
}

func (c *Comp) answerPoll(msg *rocc.CmdMsg, poll rocc.StatusPoll) bool {
	status := uint8(0)
	if poll.Function == rocc.StatusBusy && c.busy {
		status = 1
	}

	rsp := rocc.EncodeResponse(
		rocc.Response{Status: status},
		rocc.DestinationRegister(msg),
	)
	rsp.Src = c.respPort
	rsp.Dst = c.respDst

	err := c.respPort.Send(rsp)
	if err != nil {
		return false
	}

	c.cmdPort.RetrieveIncoming()

	if c.fault == FaultRepeatStatus && !c.busy {
		c.repeat = rocc.EncodeResponse(
			rocc.Response{Status: status},
			rocc.DestinationRegister(msg),
		)
		c.repeat.Src = c.respPort
		c.repeat.Dst = c.respDst
	}

	return true
}

func (c *Comp) sendRepeat() bool {
	if c.repeat == nil {
		return false
	}

	err := c.respPort.Send(c.repeat)
	if err != nil {
		return false
	}

	c.repeat = nil

	return true
}

func (c *Comp) start(cmd rocc.Command) {
	switch cmd := cmd.(type) {
	case rocc.KeyLoad:
		c.startKeyLoad(cmd)
	case rocc.AddrLoad:
		c.srcAddr = cmd.SrcAddr
		c.dstAddr = cmd.DstAddr
	case rocc.CipherBlock:
		c.startCipher(cmd)
	default:
		log.Panicf("cannot start command %s", cmd)
	}
}

func (c *Comp) raiseBusy() {
	if c.fault != FaultPrematureIdle {
		c.busy = true
	}
}

func (c *Comp) startKeyLoad(cmd rocc.KeyLoad) {
	c.raiseBusy()

	c.job = &job{
		kind:    jobKeyLoad,
		keyBits: cmd.KeySizeBits,
	}

	numWords := cmd.KeySizeBits / 8 / c.beatWidth
	c.startReads(cmd.KeyAddr, numWords)
}

func (c *Comp) startCipher(cmd rocc.CipherBlock) {
	c.raiseBusy()

	c.job = &job{
		kind:       jobCipher,
		direction:  cmd.Direction,
		blockCount: cmd.BlockCount,
		irq:        cmd.InterruptEnable,
	}

	c.startBlock()
}

func (c *Comp) wordsPerBlock() int {
	return mem.WordsPerBlock(c.beatWidth)
}

func (c *Comp) startBlock() {
	base := c.srcAddr + uint64(c.job.block*c.wordsPerBlock())
	c.startReads(base, c.wordsPerBlock())
}

func (c *Comp) startReads(base uint64, numWords int) {
	j := c.job
	j.stage = stageRead
	j.toRead = make([]uint64, numWords)
	j.words = make([][]byte, numWords)
	j.readIndex = make(map[string]int)
	j.nextRead = 0
	j.readsDone = 0

	for i := range j.toRead {
		j.toRead[i] = base + uint64(i)
	}
}

func (c *Comp) handleMemRsp() bool {
	msg := c.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	switch rsp := msg.(type) {
	case *mem.DataReadyRsp:
		c.handleDataReady(rsp)
	case *mem.WriteDoneRsp:
		c.outstandingWrites--
		tracing.EndTask(rsp.RespondTo+"_req_out", c)
	default:
		log.Panicf("cannot handle message of type %s on the memory port",
			reflect.TypeOf(msg))
	}

	return true
}

func (c *Comp) handleDataReady(rsp *mem.DataReadyRsp) {
	tracing.EndTask(rsp.RespondTo+"_req_out", c)

	if c.job == nil {
		return
	}

	idx, ok := c.job.readIndex[rsp.RespondTo]
	if !ok {
		return
	}

	delete(c.job.readIndex, rsp.RespondTo)
	c.job.words[idx] = rsp.Data
	c.job.readsDone++
}

func (c *Comp) advanceJob() bool {
	if c.job == nil {
		return false
	}

	switch c.job.stage {
	case stageRead:
		return c.advanceRead()
	case stageCompute:
		return c.advanceCompute()
	case stageWrite:
		return c.advanceWrite()
	case stageDrain:
		return c.advanceDrain()
	}

	return false
}

func (c *Comp) advanceRead() bool {
	j := c.job

	if j.readsDone == len(j.toRead) {
		j.stage = stageCompute
		j.countdown = c.cipherLatency
		if j.kind == jobKeyLoad {
			j.countdown = c.keyExpansionLatency
		}

		return true
	}

	if j.nextRead == len(j.toRead) {
		return false
	}

	req := mem.ReadReqBuilder{}.
		WithSrc(c.memPort).
		WithDst(c.memDst).
		WithAddress(j.toRead[j.nextRead]).
		Build()

	err := c.memPort.Send(req)
	if err != nil {
		return false
	}

	tracing.TraceReqInitiate(req, c, "")

	j.readIndex[req.ID] = j.nextRead
	j.nextRead++

	return true
}

func (c *Comp) advanceCompute() bool {
	j := c.job

	j.countdown--
	if j.countdown > 0 {
		return true
	}

	switch j.kind {
	case jobKeyLoad:
		c.finishKeyLoad()
	case jobCipher:
		c.finishBlock()
	}

	return true
}

func (c *Comp) finishKeyLoad() {
	key := mem.WordsToBytes(c.job.words)

	c.keyBits = c.job.keyBits
	c.key = make([]byte, mem.KeyRegionBytes)
	copy(c.key, key)

	c.finish()
}

func (c *Comp) finishBlock() {
	j := c.job
	input := mem.WordsToBytes(j.words)

	var output []byte
	switch j.direction {
	case rocc.Encrypt:
		output = oracle.Encrypt(c.keyBits, c.key, input)
	case rocc.Decrypt:
		output = oracle.Decrypt(c.keyBits, c.key, input)
	}

	j.stage = stageWrite
	j.nextWrite = 0
	j.toWrite = nil

	if c.fault == FaultNoOp {
		return
	}

	base := c.dstAddr + uint64(j.block*c.wordsPerBlock())
	j.toWrite = c.layout(base, output)

	if c.fault == FaultStrayWrite && j.block == j.blockCount-1 {
		j.toWrite = append(j.toWrite, mem.Word{
			Address: c.strayAddress(),
			Value:   make([]byte, c.beatWidth),
		})
	}
}

func (c *Comp) layout(base uint64, block []byte) []mem.Word {
	if c.fault != FaultSwapByteOrder {
		return mem.LayoutWords(base, block, c.beatWidth)
	}

	words := make([]mem.Word, 0, c.wordsPerBlock())
	for i := 0; i < len(block); i += c.beatWidth {
		value := make([]byte, c.beatWidth)
		copy(value, block[i:i+c.beatWidth])
		words = append(words, mem.Word{
			Address: base + uint64(i/c.beatWidth),
			Value:   value,
		})
	}

	return words
}

func (c *Comp) strayAddress() uint64 {
	if c.dstAddr > 0 {
		return c.dstAddr - 1
	}

	return c.dstAddr + uint64(c.job.blockCount*c.wordsPerBlock())
}

func (c *Comp) advanceWrite() bool {
	j := c.job

	if j.nextWrite == len(j.toWrite) {
		j.block++
		if j.block < j.blockCount {
			c.startBlock()
		} else {
			j.stage = stageDrain
		}

		return true
	}

	w := j.toWrite[j.nextWrite]
	req := mem.WriteReqBuilder{}.
		WithSrc(c.memPort).
		WithDst(c.memDst).
		WithAddress(w.Address).
		WithData(w.Value).
		Build()

	err := c.memPort.Send(req)
	if err != nil {
		return false
	}

	tracing.TraceReqInitiate(req, c, "")

	j.nextWrite++
	c.outstandingWrites++

	return true
}

func (c *Comp) advanceDrain() bool {
	if c.outstandingWrites > 0 {
		return false
	}

	if c.job.irq && c.fault != FaultNoInterrupt {
		c.interrupt = true
	}

	c.finish()

	return true
}

// finish ends the current job. The busy line drops in the next cycle.
func (c *Comp) finish() {
	c.job = nil
	c.finishing = true
}
