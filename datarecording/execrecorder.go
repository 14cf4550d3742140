package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTableName is the table that holds the run metadata.
const ExecInfoTableName = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is a property of the program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records the program execution into the exec_info table.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table on the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		recorder: recorder,
	}

	recorder.CreateTable(ExecInfoTableName, ExecInfo{})

	return e
}

// Start logs the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.Property("Start Time", time.Now().Format(timeLayout))
	e.Property("Command", strings.Join(os.Args, " "))

	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Property("Working Directory", wd)
}

// Property adds an arbitrary property, such as the seed of the run.
func (e *ExecRecorder) Property(name, value string) {
	e.entries = append(e.entries, ExecInfo{Property: name, Value: value})
}

// End writes all the properties along with the program end time.
func (e *ExecRecorder) End() {
	e.Property("End Time", time.Now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
