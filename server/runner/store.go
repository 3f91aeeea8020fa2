package runner

// StateStore keeps the history of finished imports.
type StateStore interface {
	// Runs returns all stored runs, most recent first.
	Runs() []RunStatus
	// Save records a finished run.
	Save(RunStatus) error
}
