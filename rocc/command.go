// Package rocc defines the commands and responses that travel over the
// coprocessor command channel and how they are encoded.
package rocc

import "fmt"

// Direction selects whether a cipher command encrypts or decrypts.
type Direction int

// Directions
const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// StatusBusy is the status-function selector that reports whether the
// accelerator is busy.
const StatusBusy uint64 = 0

// A Command is an instruction to the accelerator. Commands are values and are
// never modified after creation.
type Command interface {
	Funct() uint32
	String() string
}

// KeyLoad asks the accelerator to load a key from memory.
type KeyLoad struct {
	KeySizeBits int
	KeyAddr     uint64
}

// Funct returns the function selector.
func (c KeyLoad) Funct() uint32 { return FunctKeyLoad }

func (c KeyLoad) String() string {
	return fmt.Sprintf("KeyLoad(%d bits @0x%x)", c.KeySizeBits, c.KeyAddr)
}

// AddrLoad sets the source and the destination of the next cipher command.
type AddrLoad struct {
	SrcAddr uint64
	DstAddr uint64
}

// Funct returns the function selector.
func (c AddrLoad) Funct() uint32 { return FunctAddrLoad }

func (c AddrLoad) String() string {
	return fmt.Sprintf("AddrLoad(src 0x%x, dst 0x%x)", c.SrcAddr, c.DstAddr)
}

// CipherBlock starts encrypting or decrypting a number of blocks.
type CipherBlock struct {
	Direction       Direction
	BlockCount      int
	InterruptEnable bool
}

// Funct returns the function selector.
func (c CipherBlock) Funct() uint32 {
	if c.Direction == Decrypt {
		return FunctDecrypt
	}

	return FunctEncrypt
}

func (c CipherBlock) String() string {
	return fmt.Sprintf("CipherBlock(%s, %d blocks, irq %t)",
		c.Direction, c.BlockCount, c.InterruptEnable)
}

// StatusPoll reads a status of the accelerator.
type StatusPoll struct {
	Function uint64
}

// Funct returns the function selector.
func (c StatusPoll) Funct() uint32 { return FunctStatus }

func (c StatusPoll) String() string {
	return fmt.Sprintf("StatusPoll(%d)", c.Function)
}

// Response is the status reported by a status poll.
type Response struct {
	Status uint8
}

// Busy tells if the response reports the accelerator as busy.
func (r Response) Busy() bool {
	return r.Status == 1
}

func (r Response) String() string {
	if r.Busy() {
		return "busy"
	}

	return "idle"
}
