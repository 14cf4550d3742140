package sim

import "log"

// A Connection is responsible for delivering messages to its destination.
type Connection interface {
	Named
	Hookable

	PlugIn(port Port)
	CanSend(src Port) bool
	Send(msg Msg) *SendError
}

// DirectConnection is a zero-latency point-to-point link between two ports.
// A message is handed to the peer port in the same cycle it is sent, as long
// as the peer has room in its incoming buffer.
type DirectConnection struct {
	HookableBase

	name   string
	engine TimeTeller
	ends   [2]Port
	nEnds  int
}

// NewDirectConnection creates a new DirectConnection object
func NewDirectConnection(name string, engine TimeTeller) *DirectConnection {
	NameMustBeValid(name)

	return &DirectConnection{
		name:   name,
		engine: engine,
	}
}

// Name returns the name of the connection.
func (c *DirectConnection) Name() string {
	return c.name
}

// PlugIn marks the port connects to this DirectConnection.
func (c *DirectConnection) PlugIn(port Port) {
	if c.nEnds == len(c.ends) {
		log.Panicf("connection %s already connects two ports", c.name)
	}

	c.ends[c.nEnds] = port
	c.nEnds++

	port.SetConnection(c)
}

// CanSend tells if the peer of src is ready to take a message.
func (c *DirectConnection) CanSend(src Port) bool {
	return c.peerOf(src).CanAccept()
}

// Send delivers the message to the peer of its source port.
func (c *DirectConnection) Send(msg Msg) *SendError {
	c.msgMustBeValid(msg)

	meta := msg.Meta()
	meta.SendCycle = c.engine.CurrentCycle()
	meta.RecvCycle = meta.SendCycle

	return meta.Dst.Deliver(msg)
}

func (c *DirectConnection) peerOf(src Port) Port {
	if c.nEnds != 2 {
		log.Panicf("connection %s is not fully connected", c.name)
	}

	switch src {
	case c.ends[0]:
		return c.ends[1]
	case c.ends[1]:
		return c.ends[0]
	}

	log.Panicf("port %s is not connected to %s", src.Name(), c.name)

	return nil
}

func (c *DirectConnection) msgMustBeValid(msg Msg) {
	meta := msg.Meta()

	if meta.Src == nil || meta.Dst == nil {
		panic("src or dst is not given")
	}

	if meta.Src == meta.Dst {
		panic("sending back to src")
	}

	if c.peerOf(meta.Src) != meta.Dst {
		panic("dst is not the peer of src")
	}
}
