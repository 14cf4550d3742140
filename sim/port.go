package sim

import (
	"fmt"
	"log"
)

// HookPosPortMsgSend marks when a message is sent out from the port.
var HookPosPortMsgSend = &HookPos{Name: "Port Msg Send"}

// HookPosPortMsgRecvd marks when an inbound message arrives at a the given port
var HookPosPortMsgRecvd = &HookPos{Name: "Port Msg Recv"}

// HookPosPortMsgRetrieve marks when an inbound message is retrieved from the
// incoming buffer.
var HookPosPortMsgRetrieve = &HookPos{Name: "Port Msg Retrieve"}

// A Port is owned by a component and is used to plugin connections.
//
// The port models one side of a ready/valid handshake. CanSend reports
// whether the other side is ready this cycle and Send only succeeds when it
// is.
type Port interface {
	Named
	Hookable

	SetConnection(conn Connection)
	Component() Component

	// For connection
	CanAccept() bool
	Deliver(msg Msg) *SendError

	// For component
	CanSend() bool
	Send(msg Msg) *SendError
	RetrieveIncoming() Msg
	PeekIncoming() Msg
	IncomingBuffer() Buffer
}

type defaultPort struct {
	HookableBase

	name string
	comp Component
	conn Connection

	incomingBuf Buffer
}

// NewPort creates a new port with default behavior.
func NewPort(comp Component, incomingBufCap int, name string) Port {
	NameMustBeValid(name)

	p := new(defaultPort)
	p.comp = comp
	p.name = name
	p.incomingBuf = NewBuffer(name+".IncomingBuf", incomingBufCap)

	return p
}

// Name returns the name of the port.
func (p *defaultPort) Name() string {
	return p.name
}

// Component returns the owner component of the port.
func (p *defaultPort) Component() Component {
	return p.comp
}

// SetConnection sets which connection plugged in to this port.
func (p *defaultPort) SetConnection(conn Connection) {
	if p.conn != nil {
		panicMsg := fmt.Sprintf(
			"connection already set to %s, now connecting to %s",
			p.conn.Name(), conn.Name(),
		)
		panic(panicMsg)
	}

	p.conn = conn
}

// CanAccept tells if the incoming buffer has room for one more message.
func (p *defaultPort) CanAccept() bool {
	return p.incomingBuf.CanPush()
}

// Deliver is used by the connection to hand a message to the component.
func (p *defaultPort) Deliver(msg Msg) *SendError {
	if !p.incomingBuf.CanPush() {
		return NewSendError()
	}

	p.incomingBuf.Push(msg)

	if p.NumHooks() > 0 {
		p.InvokeHook(HookCtx{
			Domain: p,
			Cycle:  msg.Meta().RecvCycle,
			Pos:    HookPosPortMsgRecvd,
			Item:   msg,
		})
	}

	return nil
}

// CanSend checks if the port can send a message without error.
func (p *defaultPort) CanSend() bool {
	p.connMustBeSet()

	return p.conn.CanSend(p)
}

// Send is used to send a message out from a component
func (p *defaultPort) Send(msg Msg) *SendError {
	p.connMustBeSet()
	portMustBeMsgSrc(p, msg)

	err := p.conn.Send(msg)
	if err != nil {
		return err
	}

	if p.NumHooks() > 0 {
		p.InvokeHook(HookCtx{
			Domain: p,
			Cycle:  msg.Meta().SendCycle,
			Pos:    HookPosPortMsgSend,
			Item:   msg,
		})
	}

	return nil
}

// RetrieveIncoming is used by the component to take a message from the
// incoming buffer
func (p *defaultPort) RetrieveIncoming() Msg {
	msg := p.incomingBuf.Pop()
	if msg == nil {
		return nil
	}

	if p.NumHooks() > 0 {
		p.InvokeHook(HookCtx{
			Domain: p,
			Cycle:  msg.Meta().RecvCycle,
			Pos:    HookPosPortMsgRetrieve,
			Item:   msg,
		})
	}

	return msg
}

// PeekIncoming returns the first message in the incoming buffer without
// removing it.
func (p *defaultPort) PeekIncoming() Msg {
	return p.incomingBuf.Peek()
}

// IncomingBuffer exposes the incoming buffer for inspection.
func (p *defaultPort) IncomingBuffer() Buffer {
	return p.incomingBuf
}

func (p *defaultPort) connMustBeSet() {
	if p.conn == nil {
		log.Panicf("port %s is not connected", p.name)
	}
}

func portMustBeMsgSrc(port Port, msg Msg) {
	if msg.Meta().Src != port {
		panic("sending port is not msg src")
	}
}
