package rocc

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/roccaes/sim"
)

// Opcode is the custom-0 major opcode used by all the accelerator commands.
const Opcode uint32 = 0x0B

// Function selectors carried in funct7.
const (
	FunctKeyLoad  uint32 = 0
	FunctAddrLoad uint32 = 1
	FunctEncrypt  uint32 = 2
	FunctDecrypt  uint32 = 3
	FunctStatus   uint32 = 4
)

// Registers named in the instruction word. Only the destination register of a
// status poll is echoed back in the response.
const (
	regRs1 uint32 = 11
	regRs2 uint32 = 12
	regRd  uint32 = 10
)

const cmdByteSize = 20
const respByteSize = 12

// Errors returned by decoding.
var (
	ErrBadOpcode     = errors.New("not a custom-0 instruction")
	ErrBadFunct      = errors.New("unknown function selector")
	ErrBadOperand    = errors.New("invalid operand")
	ErrBadResponse   = errors.New("response data has bits beyond bit 0")
	ErrMissingResult = errors.New("status poll does not write a result")
)

// Instruction fields.
type fields struct {
	funct7 uint32
	rs2    uint32
	rs1    uint32
	xd     bool
	xs1    bool
	xs2    bool
	rd     uint32
	opcode uint32
}

func (f fields) pack() uint32 {
	inst := f.funct7&0x7F<<25 |
		f.rs2&0x1F<<20 |
		f.rs1&0x1F<<15 |
		f.rd&0x1F<<7 |
		f.opcode&0x7F

	if f.xd {
		inst |= 1 << 14
	}

	if f.xs1 {
		inst |= 1 << 13
	}

	if f.xs2 {
		inst |= 1 << 12
	}

	return inst
}

func unpack(inst uint32) fields {
	return fields{
		funct7: inst >> 25 & 0x7F,
		rs2:    inst >> 20 & 0x1F,
		rs1:    inst >> 15 & 0x1F,
		xd:     inst>>14&1 == 1,
		xs1:    inst>>13&1 == 1,
		xs2:    inst>>12&1 == 1,
		rd:     inst >> 7 & 0x1F,
		opcode: inst & 0x7F,
	}
}

// Encode converts a command into a command transaction. The source and the
// destination of the returned message are left for the sender to fill.
//
// Encode panics on commands that cannot be expressed on the channel, such as
// a key load with a key size other than 128 or 256 bits, or a cipher command
// without blocks.
func Encode(cmd Command) *CmdMsg {
	f := fields{
		funct7: cmd.Funct(),
		rs1:    regRs1,
		rs2:    regRs2,
		xs1:    true,
		xs2:    true,
		opcode: Opcode,
	}

	msg := &CmdMsg{}
	msg.ID = sim.GetIDGenerator().Generate()
	msg.TrafficBytes = cmdByteSize

	switch c := cmd.(type) {
	case KeyLoad:
		msg.Rs1 = c.KeyAddr
		msg.Rs2 = keySizeBit(c.KeySizeBits)
	case AddrLoad:
		msg.Rs1 = c.SrcAddr
		msg.Rs2 = c.DstAddr
	case CipherBlock:
		if c.BlockCount < 1 {
			log.Panicf("cannot encode %s: block count must be positive", c)
		}

		msg.Rs1 = uint64(c.BlockCount)
		if c.InterruptEnable {
			msg.Rs2 = 1
		}
	case StatusPoll:
		msg.Rs1 = c.Function
		f.xs2 = false
		f.rs2 = 0
		f.xd = true
		f.rd = regRd
	default:
		log.Panicf("cannot encode command of type %T", cmd)
	}

	msg.Inst = f.pack()

	return msg
}

func keySizeBit(keySizeBits int) uint64 {
	switch keySizeBits {
	case 128:
		return 0
	case 256:
		return 1
	default:
		log.Panicf("cannot encode a %d-bit key load", keySizeBits)
	}

	return 0
}

// DecodeCommand converts a command transaction back into a command.
func DecodeCommand(msg *CmdMsg) (Command, error) {
	f := unpack(msg.Inst)

	if f.opcode != Opcode {
		return nil, fmt.Errorf("opcode 0x%x: %w", f.opcode, ErrBadOpcode)
	}

	switch f.funct7 {
	case FunctKeyLoad:
		return decodeKeyLoad(msg)
	case FunctAddrLoad:
		return AddrLoad{SrcAddr: msg.Rs1, DstAddr: msg.Rs2}, nil
	case FunctEncrypt, FunctDecrypt:
		return decodeCipherBlock(msg, f)
	case FunctStatus:
		if !f.xd {
			return nil, ErrMissingResult
		}

		return StatusPoll{Function: msg.Rs1}, nil
	default:
		return nil, fmt.Errorf("funct %d: %w", f.funct7, ErrBadFunct)
	}
}

func decodeKeyLoad(msg *CmdMsg) (Command, error) {
	switch msg.Rs2 {
	case 0:
		return KeyLoad{KeySizeBits: 128, KeyAddr: msg.Rs1}, nil
	case 1:
		return KeyLoad{KeySizeBits: 256, KeyAddr: msg.Rs1}, nil
	default:
		return nil, fmt.Errorf("key size bit %d: %w", msg.Rs2, ErrBadOperand)
	}
}

func decodeCipherBlock(msg *CmdMsg, f fields) (Command, error) {
	if msg.Rs1 == 0 {
		return nil, fmt.Errorf("zero block count: %w", ErrBadOperand)
	}

	direction := Encrypt
	if f.funct7 == FunctDecrypt {
		direction = Decrypt
	}

	return CipherBlock{
		Direction:       direction,
		BlockCount:      int(msg.Rs1),
		InterruptEnable: msg.Rs2&1 == 1,
	}, nil
}

// DestinationRegister returns the register that the command writes its
// result to.
func DestinationRegister(msg *CmdMsg) uint32 {
	return unpack(msg.Inst).rd
}

// EncodeResponse builds the response transaction of a status poll.
func EncodeResponse(resp Response, rd uint32) *RespMsg {
	msg := &RespMsg{
		Rd:   rd,
		Data: uint64(resp.Status & 1),
	}
	msg.ID = sim.GetIDGenerator().Generate()
	msg.TrafficBytes = respByteSize

	return msg
}

// DecodeResponse extracts the status from a response transaction. Only bit 0
// of the data is significant. Any other bit set means the transaction is
// malformed.
func DecodeResponse(msg *RespMsg) (Response, error) {
	if msg.Data > 1 {
		return Response{}, fmt.Errorf("data 0x%x: %w", msg.Data, ErrBadResponse)
	}

	return Response{Status: uint8(msg.Data)}, nil
}
