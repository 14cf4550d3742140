package tracing

// A Tracer receives the tasks reported by the components it is attached to.
// A task is a delivered command or a bus transaction.
//
// Only StartTask carries the full task. StepTask and EndTask carry the ID and
// the new step, so tracers match them to the started task by ID.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}
