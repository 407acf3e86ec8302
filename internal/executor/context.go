// Package executor replays a recipe's tasks, in declared order,
// against the output directory.
package executor

// Context carries the per-run execution state shared by every handler.
// Scratch is empty in dry-run mode: nothing may touch the network or
// version control there.
type Context struct {
	OutputDir string
	Scratch   string
	RunID     string
	Verbose   bool
	DryRun    bool
}
