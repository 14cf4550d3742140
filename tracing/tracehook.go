package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/roccaes/sim"
)

// CollectTrace attaches the tracer to a component. When filters are given,
// the tracer only sees the tasks that pass all of them. Attaching the same
// tracer to a component twice panics.
func CollectTrace(domain NamedHookable, tracer Tracer, filters ...TaskFilter) {
	if hasTracer(domain, tracer) {
		panic(fmt.Sprintf("component %s already reports to tracer %s",
			domain.Name(), reflect.TypeOf(tracer)))
	}

	domain.AcceptHook(&taskHook{
		tracer:   tracer,
		filters:  filters,
		accepted: make(map[string]bool),
	})
}

func hasTracer(domain NamedHookable, tracer Tracer) bool {
	hookable, ok := domain.(interface{ Hooks() []sim.Hook })
	if !ok {
		return false
	}

	for _, hook := range hookable.Hooks() {
		h, ok := hook.(*taskHook)
		if ok && h.tracer == tracer {
			return true
		}
	}

	return false
}

// A taskHook forwards the task events of one component to a tracer.
type taskHook struct {
	tracer   Tracer
	filters  []TaskFilter
	accepted map[string]bool
}

func (h *taskHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		if !h.pass(task) {
			return
		}

		h.accepted[task.ID] = true
		h.tracer.StartTask(task)
	case HookPosTaskStep:
		if h.accepted[task.ID] {
			h.tracer.StepTask(task)
		}
	case HookPosTaskEnd:
		if h.accepted[task.ID] {
			delete(h.accepted, task.ID)
			h.tracer.EndTask(task)
		}
	}
}

func (h *taskHook) pass(task Task) bool {
	for _, f := range h.filters {
		if !f(task) {
			return false
		}
	}

	return true
}
