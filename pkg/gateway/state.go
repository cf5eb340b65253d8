package gateway

import "fmt"

// State is a step in the upload request lifecycle.
type State string

const (
	StateReceived       State = "RECEIVED"
	StateAuthenticating State = "AUTHENTICATING"
	StateParsing        State = "PARSING"
	StateStaging        State = "STAGING"
	StateValidating     State = "VALIDATING"
	StateRelaying       State = "RELAYING"
	StateTranslating    State = "TRANSLATING"
	StateDone           State = "DONE"

	StateUnauthenticated State = "UNAUTHENTICATED"
	StateMalformedUpload State = "MALFORMED_UPLOAD"
	StateStorageError    State = "STORAGE_ERROR"
	StateInvalidFile     State = "INVALID_FILE"
	StateBadGateway      State = "BAD_GATEWAY"
	StateInternalError   State = "INTERNAL_ERROR"
	StateAborted         State = "ABORTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Failure reports whether s is a failure terminal.
func (s State) Failure() bool {
	return s.Terminal() && s != StateDone
}

var transitions = map[State][]State{
	StateReceived:       {StateAuthenticating},
	StateAuthenticating: {StateParsing, StateUnauthenticated},
	StateParsing:        {StateStaging, StateMalformedUpload, StateInvalidFile},
	StateStaging:        {StateValidating, StateStorageError, StateAborted},
	StateValidating:     {StateRelaying, StateInvalidFile},
	StateRelaying:       {StateTranslating, StateBadGateway, StateAborted},
	StateTranslating:    {StateDone, StateInternalError},
}

// lifecycle tracks the state of a single request and enforces that every
// transition is one the machine allows. An illegal transition is a
// programming error, so it panics.
type lifecycle struct {
	state State
}

func newLifecycle() *lifecycle {
	return &lifecycle{state: StateReceived}
}

func (l *lifecycle) advance(next State) {
	for _, allowed := range transitions[l.state] {
		if next == allowed {
			l.state = next
			return
		}
	}
	panic(fmt.Sprintf("gateway: illegal transition %s -> %s", l.state, next))
}

func (l *lifecycle) current() State {
	return l.state
}
