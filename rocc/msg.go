package rocc

import (
	"fmt"

	"github.com/sarchlab/roccaes/sim"
)

// CmdMsg is a command transaction on the command channel.
type CmdMsg struct {
	sim.MsgMeta

	Inst uint32
	Rs1  uint64
	Rs2  uint64
}

// Meta returns the meta data of the message.
func (m *CmdMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// String decodes the instruction. Malformed instructions print as raw words.
func (m *CmdMsg) String() string {
	cmd, err := DecodeCommand(m)
	if err != nil {
		return fmt.Sprintf("inst 0x%08x rs1 0x%x rs2 0x%x", m.Inst, m.Rs1, m.Rs2)
	}

	return cmd.String()
}

// RespMsg is a response transaction on the response channel.
type RespMsg struct {
	sim.MsgMeta

	Rd   uint32
	Data uint64
}

// Meta returns the meta data of the message.
func (m *RespMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// String decodes the response. Malformed responses print as raw words.
func (m *RespMsg) String() string {
	rsp, err := DecodeResponse(m)
	if err != nil {
		return fmt.Sprintf("rd %d data 0x%x", m.Rd, m.Data)
	}

	return fmt.Sprintf("rd %d %s", m.Rd, rsp)
}
