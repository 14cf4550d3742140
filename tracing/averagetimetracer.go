package tracing

import (
	"sync"

	"github.com/sarchlab/roccaes/sim"
)

// AverageTimeTracer can collect the average number of cycles spent on a
// certain type of task. If the execution of two tasks overlaps, this tracer
// will simply count both.
type AverageTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	averageCycles float64
	inflightTasks map[string]Task
	taskCount     uint64
}

// NewAverageTimeTracer creates a new AverageTimeTracer
func NewAverageTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	t := &AverageTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// AverageCycles returns the average number of cycles spent on the tasks that
// have completed.
func (t *AverageTimeTracer) AverageCycles() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.averageCycles
}

// TotalCount returns the total number of tasks.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// StartTask records the task start time
func (t *AverageTimeTracer) StartTask(task Task) {
	task.StartCycle = t.timeTeller.CurrentCycle()

	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing
func (t *AverageTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *AverageTimeTracer) EndTask(task Task) {
	task.EndCycle = t.timeTeller.CurrentCycle()

	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	taskCycles := float64(task.EndCycle - originalTask.StartCycle)
	t.averageCycles =
		(t.averageCycles*float64(t.taskCount) + taskCycles) /
			float64(t.taskCount+1)

	delete(t.inflightTasks, task.ID)
	t.taskCount++
}
