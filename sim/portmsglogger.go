package sim

import (
	"fmt"
	"log"
	"reflect"
)

// PortMsgLogger is a port hook that writes one line per message event. It
// logs sends only unless other positions are given.
type PortMsgLogger struct {
	logger    *log.Logger
	positions []*HookPos
}

// NewPortMsgLogger creates a PortMsgLogger that reports the events at the
// given positions.
func NewPortMsgLogger(
	logger *log.Logger,
	positions ...*HookPos,
) *PortMsgLogger {
	if len(positions) == 0 {
		positions = []*HookPos{HookPosPortMsgSend}
	}

	return &PortMsgLogger{
		logger:    logger,
		positions: positions,
	}
}

// Func writes the message event.
func (h *PortMsgLogger) Func(ctx HookCtx) {
	if !h.watches(ctx.Pos) {
		return
	}

	msg, ok := ctx.Item.(Msg)
	if !ok {
		return
	}

	meta := msg.Meta()
	h.logger.Printf("%d %s %s -> %s [%s] %s",
		ctx.Cycle, ctx.Pos.Name,
		meta.Src.Name(), meta.Dst.Name(),
		meta.ID, describe(msg))
}

func (h *PortMsgLogger) watches(pos *HookPos) bool {
	for _, p := range h.positions {
		if p == pos {
			return true
		}
	}

	return false
}

func describe(msg Msg) string {
	if s, ok := msg.(fmt.Stringer); ok {
		return s.String()
	}

	return reflect.TypeOf(msg).String()
}
