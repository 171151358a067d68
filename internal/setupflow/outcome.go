package setupflow

import (
	"errors"

	"github.com/splinter98/lgnetcast/internal/netcast"
)

// ResultKind tells the host collaborator what kind of Outcome it received.
type ResultKind int

const (
	// ResultForm asks the host to show an interactive form for Outcome.Step
	ResultForm ResultKind = iota
	// ResultCreate asks the host to finalize the configured entry
	ResultCreate
	// ResultAbort terminates the flow with Outcome.Reason
	ResultAbort
)

// Outcome is what the host collaborator renders or persists next.
type Outcome struct {
	Kind ResultKind
	Step Step

	// Errors maps field names to error codes for re-shown forms
	Errors map[string]string

	// Devices maps unique id to display name on the pick_device form
	Devices map[string]string

	// Title and Data describe the finalized entry on ResultCreate
	Title string
	Data  DeviceConfig

	// Reason is the abort reason code on ResultAbort
	Reason string
}

func formOutcome(step Step, errs map[string]string, devices map[string]string) Outcome {
	return Outcome{Kind: ResultForm, Step: step, Errors: errs, Devices: devices}
}

func abortOutcome(reason string) Outcome {
	return Outcome{Kind: ResultAbort, Step: StepAbort, Reason: reason}
}

type sessionFailure int

const (
	sessionTokenRejected sessionFailure = iota
	sessionUnreachable
)

// classifySessionError maps a session error onto the two user-facing
// outcomes: bad/missing token versus everything else.
func classifySessionError(err error) sessionFailure {
	var tokenErr *netcast.AccessTokenError
	if errors.As(err, &tokenErr) {
		return sessionTokenRejected
	}
	return sessionUnreachable
}
