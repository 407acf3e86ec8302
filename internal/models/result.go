package models

// TaskStatus is the tri-state outcome of one task.
type TaskStatus int

const (
	TaskSucceeded TaskStatus = iota
	TaskFailed
	TaskSkipped
)

// RunResult aggregates task outcomes for one recipe run. No task
// outcome affects subsequent tasks; there is no rollback.
type RunResult struct {
	RecipeName string
	OutputDir  string
	Successful int
	Failed     int
	Skipped    int
	Cancelled  bool
}

// Record increments the counter matching s.
func (r *RunResult) Record(s TaskStatus) {
	switch s {
	case TaskSucceeded:
		r.Successful++
	case TaskFailed:
		r.Failed++
	case TaskSkipped:
		r.Skipped++
	}
}

// Total returns the number of tasks accounted for.
func (r *RunResult) Total() int {
	return r.Successful + r.Failed + r.Skipped
}
