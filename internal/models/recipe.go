package models

// Action identifies a recipe task type. The vocabulary is closed:
// dispatch is an exhaustive switch over these constants, and anything
// outside it fails the task without crashing the run.
type Action string

const (
	ActionDownloadGithub  Action = "download_github"
	ActionDownloadFile    Action = "download_file"
	ActionUnzip           Action = "unzip"
	ActionMovePath        Action = "move_path"
	ActionRemovePath      Action = "remove_path"
	ActionWasteTime       Action = "waste_time"
	ActionConnectDatabase Action = "connect_database"
	ActionQueryDatabase   Action = "query_database"
)

// Task is one recipe step. Fields are action-specific; decoding keeps
// all of them so required-field validation can happen per action at
// dispatch time instead of failing the whole load.
type Task struct {
	Action    Action  `yaml:"action" json:"action"`
	Src       string  `yaml:"src,omitempty" json:"src,omitempty"`
	Dest      string  `yaml:"dest,omitempty" json:"dest,omitempty"`
	Ref       string  `yaml:"ref,omitempty" json:"ref,omitempty"`
	Subpath   string  `yaml:"subpath,omitempty" json:"subpath,omitempty"`
	URL       string  `yaml:"url,omitempty" json:"url,omitempty"`
	Path      string  `yaml:"path,omitempty" json:"path,omitempty"`
	Overwrite bool    `yaml:"overwrite,omitempty" json:"overwrite,omitempty"`
	Seconds   float64 `yaml:"seconds,omitempty" json:"seconds,omitempty"`
}

// Target returns the path a task writes to, used in progress lines.
func (t *Task) Target() string {
	if t.Dest != "" {
		return t.Dest
	}
	return t.Path
}

// Recipe is the declarative task list describing how to assemble a
// deployment tree. A nil task slot is a deliberately disabled entry
// and is counted as skipped, never failed.
type Recipe struct {
	Name  string  `yaml:"name" json:"name"`
	Tasks []*Task `yaml:"tasks" json:"tasks"`
}
