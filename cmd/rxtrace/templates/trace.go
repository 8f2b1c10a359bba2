package templates

// Event is one watcher callback observed while applying an operation.
type Event struct {
	Path string
	Old  string
	New  string
}

type Step struct {
	Op     string
	Err    string
	Events []Event
}

type Trace struct {
	Source   string
	Watches  []string
	Deep     bool
	Sync     bool
	Steps    []Step
	Warnings []string
	Final    string
}
