package activities

// Event is a transition applied to a State. The set of events is closed.
type Event interface {
	isEvent()
}

// FetchStarted moves the store into StatusFetching. It is valid from any state.
type FetchStarted struct{}

// FetchSucceeded moves the store into StatusSuccess and replaces its activities.
type FetchSucceeded struct {
	Activities []Activity
}

// FetchFailed moves the store into StatusFailed. Activities are left untouched.
type FetchFailed struct{}

func (FetchStarted) isEvent()   {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent()    {}

// Reduce returns the state that results from applying e to s.
// s is never modified. Only FetchSucceeded changes the activities, and it
// replaces them wholesale. The current status is not checked: every event is
// accepted from every state.
func Reduce(s State, e Event) State {
	next := s.clone()
	switch ev := e.(type) {
	case FetchStarted:
		next.Status = StatusFetching
	case FetchSucceeded:
		next = State{Activities: ev.Activities, Status: StatusSuccess}.clone()
	case FetchFailed:
		next.Status = StatusFailed
	}
	return next
}
