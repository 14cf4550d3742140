package sim

// A Msg is a piece of information that is transferred between components.
type Msg interface {
	Meta() *MsgMeta
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     Port
	SendCycle    uint64
	RecvCycle    uint64
	TrafficBytes int
}

// SendError marks a failure send or receive
type SendError struct{}

// NewSendError creates a SendError
func NewSendError() *SendError {
	return &SendError{}
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return "port not ready"
}
