package sim

import "log"

// HookPosBufPush marks when a message enters a buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when a message leaves a buffer.
var HookPosBufPop = &HookPos{Name: "Buffer Pop"}

// A Buffer is the receiving FIFO of a port. It holds the messages that have
// been delivered but not yet retrieved by the owning component. When it is
// full, the sender sees back-pressure.
type Buffer interface {
	Named
	Hookable

	CanPush() bool
	Push(msg Msg)
	Pop() Msg
	Peek() Msg
	Capacity() int
	Size() int

	// HighWater returns the largest number of messages held at once since
	// the buffer was created or cleared.
	HighWater() int

	// Clear drops every message and returns how many were dropped.
	Clear() int
}

// NewBuffer creates a buffer that holds up to depth messages.
func NewBuffer(name string, depth int) Buffer {
	NameMustBeValid(name)

	if depth <= 0 {
		log.Panicf("buffer %s must have a positive depth", name)
	}

	return &fifo{
		name:  name,
		slots: make([]Msg, depth),
	}
}

type fifo struct {
	HookableBase

	name      string
	slots     []Msg
	head      int
	count     int
	highWater int
}

func (b *fifo) Name() string {
	return b.name
}

func (b *fifo) CanPush() bool {
	return b.count < len(b.slots)
}

func (b *fifo) Push(msg Msg) {
	if !b.CanPush() {
		log.Panicf("buffer %s overflows", b.name)
	}

	b.slots[(b.head+b.count)%len(b.slots)] = msg
	b.count++
	b.highWater = max(b.highWater, b.count)

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{Domain: b, Pos: HookPosBufPush, Item: msg})
	}
}

func (b *fifo) Pop() Msg {
	if b.count == 0 {
		return nil
	}

	msg := b.slots[b.head]
	b.slots[b.head] = nil
	b.head = (b.head + 1) % len(b.slots)
	b.count--

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{Domain: b, Pos: HookPosBufPop, Item: msg})
	}

	return msg
}

func (b *fifo) Peek() Msg {
	if b.count == 0 {
		return nil
	}

	return b.slots[b.head]
}

func (b *fifo) Capacity() int {
	return len(b.slots)
}

func (b *fifo) Size() int {
	return b.count
}

func (b *fifo) HighWater() int {
	return b.highWater
}

func (b *fifo) Clear() int {
	dropped := b.count

	clear(b.slots)
	b.head = 0
	b.count = 0
	b.highWater = 0

	return dropped
}
